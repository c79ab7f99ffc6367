package arena

import (
	"encoding/json"
	"testing"
)

func TestBoundsTruncation(t *testing.T) {
	b := Body{Position: Vector{10.7, 5.2}, Size: 31}

	got := b.Bounds()
	want := Bounds{Left: -4, Top: -9, Right: 25, Bottom: 20}
	if got != want {
		t.Errorf("Bounds() = %+v, want %+v", got, want)
	}
}

func TestOverlaps(t *testing.T) {
	base := Body{Position: Vector{0, 0}, Size: 10}

	tests := []struct {
		name  string
		other Vector
		want  bool
	}{
		{"same center", Vector{0, 0}, true},
		{"shared vertical edge", Vector{10, 0}, true},
		{"shared horizontal edge", Vector{0, -10}, true},
		{"corner touch", Vector{10, 10}, true},
		{"one unit apart", Vector{11, 0}, false},
		{"diagonal apart", Vector{11, 11}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := Body{Position: tt.other, Size: 10}
			if got := base.Overlaps(other); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := other.Overlaps(base); got != tt.want {
				t.Errorf("reverse Overlaps = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKindText(t *testing.T) {
	for k, name := range map[Kind]string{
		Wall:        "wall",
		CenterBlock: "center_block",
		RedBlock:    "red_block",
		BlueBlock:   "blue_block",
	} {
		if k.String() != name {
			t.Errorf("%d.String() = %q, want %q", int(k), k.String(), name)
		}
		parsed, err := ParseKind(name)
		if err != nil || parsed != k {
			t.Errorf("ParseKind(%q) = %v, %v", name, parsed, err)
		}
	}

	if _, err := ParseKind("green_block"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestBodyJSONShape(t *testing.T) {
	b := Body{
		Kind:     RedBlock,
		Position: Vector{100, 100},
		Velocity: Vector{1, 0},
		Size:     30,
		Color:    ColorRed,
	}

	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	want := `{"kind":"red_block","position":{"x":100,"y":100},"velocity":{"x":1,"y":0},"size":30,"color":[255,0,0],"is_static":false}`
	if string(data) != want {
		t.Errorf("json = %s\nwant   %s", data, want)
	}
}

func TestColorHex(t *testing.T) {
	if got := ColorGreen.Hex(); got != "#00ff00" {
		t.Errorf("Hex() = %s", got)
	}
}
