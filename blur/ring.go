package blur

// rgb holds running channel totals. Alpha is never accumulated.
type rgb struct {
	r, g, b uint32
}

func (c *rgb) add(o rgb) {
	c.r += o.r
	c.g += o.g
	c.b += o.b
}

func (c *rgb) sub(o rgb) {
	c.r -= o.r
	c.g -= o.g
	c.b -= o.b
}

func (c *rgb) addScaled(o rgb, w uint32) {
	c.r += o.r * w
	c.g += o.g * w
	c.b += o.b * w
}

func (c rgb) scaled(w uint32) rgb {
	return rgb{c.r * w, c.g * w, c.b * w}
}

// ring is the window of 2r+1 samples covering the current position.
// Slot in is the oldest sample and gets overwritten by the incoming one;
// slot out is the sample crossing from the leading half into the trailing half.
type ring struct {
	slots   []rgb
	in, out int
}

func newRing(radius int) *ring {
	return &ring{slots: make([]rgb, 2*radius+1)}
}

// reset rewinds the cursors for a new scanline. Slot contents are always
// rewritten by the seeding step.
func (q *ring) reset(radius int) {
	q.in = 0
	q.out = radius + 1
}

func (q *ring) advance() {
	q.in++
	if q.in == len(q.slots) {
		q.in = 0
	}
	q.out++
	if q.out == len(q.slots) {
		q.out = 0
	}
}
