package viz

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"os"

	"github.com/san-kum/boxsim/internal/arena"
)

// DefaultFrameLimit is ten seconds at the default frame rate.
const DefaultFrameLimit = 600

// Recorder rasterizes snapshots into GIF frames, up to Limit of them.
type Recorder struct {
	Limit   int
	pixels  int
	palette color.Palette
	frames  []*image.Paletted
}

func NewRecorder(pixels int) *Recorder {
	if pixels <= 0 {
		pixels = 200
	}
	return &Recorder{
		Limit:  DefaultFrameLimit,
		pixels: pixels,
		palette: color.Palette{
			color.Black,
			rgb(arena.ColorGreen),
			rgb(arena.ColorRed),
			rgb(arena.ColorBlue),
			color.White,
		},
	}
}

func rgb(c arena.Color) color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 0xff}
}

func (r *Recorder) Len() int { return len(r.frames) }

// Full reports whether the frame limit has been reached.
func (r *Recorder) Full() bool { return r.Limit > 0 && len(r.frames) >= r.Limit }

// Capture appends one frame with every body filled at its bounds. Frames
// past the limit are dropped.
func (r *Recorder) Capture(s arena.Snapshot) {
	if r.Full() {
		return
	}
	img := image.NewPaletted(image.Rect(0, 0, r.pixels, r.pixels), r.palette)
	if s.GridSize <= 0 {
		r.frames = append(r.frames, img)
		return
	}
	scale := float64(r.pixels) / s.GridSize

	for _, b := range s.Bodies {
		idx := uint8(r.palette.Index(rgb(b.Color)))
		bd := b.Bounds()
		x0, y0 := int(float64(bd.Left)*scale), int(float64(bd.Top)*scale)
		x1, y1 := int(float64(bd.Right)*scale), int(float64(bd.Bottom)*scale)
		for y := max(y0, 0); y < min(max(y1, y0+1), r.pixels); y++ {
			for x := max(x0, 0); x < min(max(x1, x0+1), r.pixels); x++ {
				img.SetColorIndex(x, y, idx)
			}
		}
	}
	r.frames = append(r.frames, img)
}

// Save encodes the captured frames and clears the recorder.
func (r *Recorder) Save(path string) error {
	if len(r.frames) == 0 {
		return errors.New("no frames recorded")
	}

	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := gif.EncodeAll(f, &anim); err != nil {
		return err
	}
	r.frames = r.frames[:0]
	return nil
}
