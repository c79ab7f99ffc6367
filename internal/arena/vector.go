package arena

import "math"

// Vector is a 2D vector. All operations return new values.
type Vector struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func (v Vector) Add(o Vector) Vector       { return Vector{v.X + o.X, v.Y + o.Y} }
func (v Vector) Sub(o Vector) Vector       { return Vector{v.X - o.X, v.Y - o.Y} }
func (v Vector) Scale(k float64) Vector    { return Vector{v.X * k, v.Y * k} }
func (v Vector) Dot(o Vector) float64      { return v.X*o.X + v.Y*o.Y }
func (v Vector) Len() float64              { return math.Sqrt(v.X*v.X + v.Y*v.Y) }
func (v Vector) IsZero() bool              { return v.X == 0 && v.Y == 0 }
func (v Vector) IsFinite() bool            { return isFinite(v.X) && isFinite(v.Y) }
func (v Vector) Distance(o Vector) float64 { return v.Sub(o).Len() }

// Normalize returns the unit vector in the direction of v, or the zero
// vector when v has zero length.
func (v Vector) Normalize() Vector {
	l := v.Len()
	if l == 0 {
		return Vector{}
	}
	return Vector{v.X / l, v.Y / l}
}

// Reflect mirrors v across the unit normal n: v - 2(v·n)n.
func (v Vector) Reflect(n Vector) Vector {
	d := v.Dot(n)
	return Vector{
		v.X - 2*d*n.X,
		v.Y - 2*d*n.Y,
	}
}

// Heading returns the unit vector at angle theta (radians).
func Heading(theta float64) Vector {
	return Vector{math.Cos(theta), math.Sin(theta)}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
