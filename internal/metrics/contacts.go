package metrics

import "github.com/san-kum/boxsim/internal/sim"

// Contacts counts collision resolutions across the run.
type Contacts struct {
	total int
}

func NewContacts() *Contacts { return &Contacts{} }

func (c *Contacts) Name() string        { return "contacts" }
func (c *Contacts) Observe(f sim.Frame) { c.total += f.Contacts }
func (c *Contacts) Value() float64      { return float64(c.total) }
func (c *Contacts) Reset()              { c.total = 0 }
