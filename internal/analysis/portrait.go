package analysis

import (
	"strings"

	"github.com/san-kum/boxsim/internal/arena"
)

type Point struct{ X, Y float64 }

// Portrait is a 2D plot of one block's state: its path (x vs y) or a phase
// plot such as x vs vx.
type Portrait struct {
	Kind   arena.Kind
	XAxis  Axis
	YAxis  Axis
	Points []Point
}

// PathPortrait collects (xAxis, yAxis) pairs for the first body of kind
// from every sample.
func PathPortrait(samples []arena.Snapshot, kind arena.Kind, xAxis, yAxis Axis) *Portrait {
	p := &Portrait{
		Kind:   kind,
		XAxis:  xAxis,
		YAxis:  yAxis,
		Points: make([]Point, 0, len(samples)),
	}
	for _, s := range samples {
		b, ok := s.Find(kind)
		if !ok {
			continue
		}
		p.Points = append(p.Points, Point{X: xAxis.of(b), Y: yAxis.of(b)})
	}
	return p
}

// PortraitToASCII rasterizes the portrait into width x height runes with
// axes drawn where zero is in range.
func PortraitToASCII(p *Portrait, width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX = min(minX, pt.X)
		maxX = max(maxX, pt.X)
		minY = min(minY, pt.Y)
		maxY = max(maxY, pt.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
