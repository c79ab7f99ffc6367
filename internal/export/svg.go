package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/boxsim/internal/arena"
)

// Trail is the sampled path of one mobile body.
type Trail struct {
	Kind   arena.Kind
	Color  arena.Color
	Points []arena.Vector
}

// TrailsFromSamples collects one trail per mobile body, in arena order.
func TrailsFromSamples(samples []arena.Snapshot) []Trail {
	if len(samples) == 0 {
		return nil
	}

	mobile := samples[0].Mobile()
	trails := make([]Trail, len(mobile))
	for i, b := range mobile {
		trails[i] = Trail{Kind: b.Kind, Color: b.Color, Points: make([]arena.Vector, 0, len(samples))}
	}
	for _, s := range samples {
		for i, b := range s.Mobile() {
			if i < len(trails) {
				trails[i].Points = append(trails[i].Points, b.Position)
			}
		}
	}
	return trails
}

// ArenaSVG draws the snapshot's bodies at their collision bounds plus the
// given trails, scaled to a square of pixels.
func ArenaSVG(final arena.Snapshot, trails []Trail, pixels int) string {
	if final.GridSize <= 0 || pixels <= 0 {
		return ""
	}
	scale := float64(pixels) / final.GridSize

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#000000"/>
`, pixels, pixels, pixels, pixels))

	for _, t := range trails {
		if len(t.Points) < 2 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-opacity="0.6" stroke-width="1.5" d="M`, t.Color.Hex()))
		for i, p := range t.Points {
			if i > 0 {
				sb.WriteString(" L")
			}
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", p.X*scale, p.Y*scale))
		}
		sb.WriteString("\"/>\n")
	}

	for _, b := range final.Bodies {
		r := b.Bounds()
		sb.WriteString(fmt.Sprintf(`<rect class="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, b.Kind, float64(r.Left)*scale, float64(r.Top)*scale,
			float64(r.Right-r.Left)*scale, float64(r.Bottom-r.Top)*scale, b.Color.Hex()))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesSVG plots values against their index as a single polyline.
func SeriesSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		minY = min(minY, v)
		maxY = max(maxY, v)
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	stepX := float64(width) / float64(len(values)-1)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, v := range values {
		x := float64(i) * stepX
		y := float64(height) - (v-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
