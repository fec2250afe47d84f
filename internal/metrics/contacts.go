package metrics

import "github.com/san-kum/hexbounce/internal/physics"

// Contacts is the mean number of wall, vertex and pair contacts per tick.
type Contacts struct {
	name    string
	sum     int
	samples int
}

func NewContacts() *Contacts {
	return &Contacts{
		name: "contacts",
	}
}

func (c *Contacts) Name() string {
	return c.name
}

func (c *Contacts) Observe(w *physics.World) {
	c.sum += w.LastStats().Contacts()
	c.samples++
}

func (c *Contacts) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.sum) / float64(c.samples)
}

func (c *Contacts) Reset() {
	c.sum = 0
	c.samples = 0
}
