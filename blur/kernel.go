package blur

type kernel struct {
	radius    int
	mul       uint64
	shift     uint8
	sumFactor uint32
}

func newKernel(radius int) kernel {
	mul, shift := DivisorConstants(radius)
	rp1 := uint32(radius + 1)
	return kernel{
		radius:    radius,
		mul:       uint64(mul),
		shift:     shift,
		sumFactor: rp1 * (rp1 + 1) / 2,
	}
}

func sampleAt(pix []uint8, i int) rgb {
	return rgb{uint32(pix[i]), uint32(pix[i+1]), uint32(pix[i+2])}
}

func (k kernel) emit(sum uint32) uint8 {
	v := uint64(sum) * k.mul >> k.shift
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

// sweep blurs the n pixels found at pix[start], pix[start+step], ... in place.
// Samples past either end are replaced by the nearest end pixel.
func (k kernel) sweep(pix []uint8, start, step, n int, q *ring) {
	r := k.radius
	rp1 := uint32(r + 1)
	last := n - 1

	// The window starts centred on pixel 0 with its left half replicated
	// from pixel 0.
	first := sampleAt(pix, start)
	sum := first.scaled(k.sumFactor)
	outsum := first.scaled(rp1)
	var insum rgb

	q.reset(r)
	for i := 0; i <= r; i++ {
		q.slots[i] = first
	}
	for i := 1; i <= r; i++ {
		p := sampleAt(pix, start+min(i, last)*step)
		q.slots[r+i] = p
		sum.addScaled(p, rp1-uint32(i))
		insum.add(p)
	}

	off := start
	for x := 0; x < n; x++ {
		pix[off] = k.emit(sum.r)
		pix[off+1] = k.emit(sum.g)
		pix[off+2] = k.emit(sum.b)

		sum.sub(outsum)
		outsum.sub(q.slots[q.in])

		// At x == last this re-reads the pixel just written; the value only
		// feeds a window that is never emitted.
		p := sampleAt(pix, start+min(x+r+1, last)*step)
		q.slots[q.in] = p
		insum.add(p)
		sum.add(insum)

		mid := q.slots[q.out]
		outsum.add(mid)
		insum.sub(mid)

		q.advance()
		off += step
	}
}
