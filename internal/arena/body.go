package arena

import "fmt"

// Kind identifies the role of a body. It drives color and initial
// placement only; physics is gated by Body.Static.
type Kind int

const (
	Wall Kind = iota
	CenterBlock
	RedBlock
	BlueBlock
)

var kindNames = [...]string{
	Wall:        "wall",
	CenterBlock: "center_block",
	RedBlock:    "red_block",
	BlueBlock:   "blue_block",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("arena: unknown kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind maps the text form of a kind back to its value.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("arena: unknown kind %q", s)
}

// Color is an RGB triple carried for the render collaborator.
type Color [3]uint8

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

var (
	ColorGreen = Color{0, 255, 0}
	ColorRed   = Color{255, 0, 0}
	ColorBlue  = Color{0, 0, 255}
)

// Color returns the color Initialize gives bodies of this kind.
func (k Kind) Color() Color {
	switch k {
	case RedBlock:
		return ColorRed
	case BlueBlock:
		return ColorBlue
	}
	return ColorGreen
}

// Body is an axis-aligned square centred on Position.
type Body struct {
	Kind     Kind   `json:"kind"`
	Position Vector `json:"position"`
	Velocity Vector `json:"velocity"`
	Size     int    `json:"size"`
	Color    Color  `json:"color"`
	Static   bool   `json:"is_static"`
}

// Bounds is an integer axis-aligned box.
type Bounds struct {
	Left, Top, Right, Bottom int
}

// Intersects reports whether the boxes share any point; touching edges
// count as intersecting.
func (b Bounds) Intersects(o Bounds) bool {
	return !(b.Right < o.Left || b.Left > o.Right ||
		b.Bottom < o.Top || b.Top > o.Bottom)
}

// HalfSize is the truncated half side length.
func (b Body) HalfSize() int { return b.Size / 2 }

// Bounds truncates both the half size and the resulting coordinates, so
// odd sizes lose a unit on the far side.
func (b Body) Bounds() Bounds {
	half := float64(b.HalfSize())
	return Bounds{
		Left:   int(b.Position.X - half),
		Top:    int(b.Position.Y - half),
		Right:  int(b.Position.X + half),
		Bottom: int(b.Position.Y + half),
	}
}

func (b Body) Overlaps(other Body) bool {
	return b.Bounds().Intersects(other.Bounds())
}

// Speed is the velocity magnitude.
func (b Body) Speed() float64 { return b.Velocity.Len() }

func (b Body) validate(gridSize float64) error {
	if b.Size <= 0 || float64(b.Size) >= gridSize {
		return fmt.Errorf("%w: %s size %d", ErrInvalidBody, b.Kind, b.Size)
	}
	if !b.Position.IsFinite() || !b.Velocity.IsFinite() {
		return fmt.Errorf("%w: %s has non-finite state", ErrInvalidBody, b.Kind)
	}
	if b.Kind < Wall || b.Kind > BlueBlock {
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidBody, int(b.Kind))
	}
	return nil
}
