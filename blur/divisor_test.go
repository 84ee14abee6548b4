package blur

import "testing"

func TestDivisorConstantsKnownValues(t *testing.T) {
	tests := []struct {
		radius int
		mul    uint32
		shift  uint8
	}{
		{0, 512, 9},
		{1, 512, 11},
		{2, 456, 12},
		{4, 328, 13},
		{22, 496, 18},
		{MaxRadius, 259, 24},
	}

	for _, tt := range tests {
		mul, shift := DivisorConstants(tt.radius)
		if mul != tt.mul || shift != tt.shift {
			t.Errorf("DivisorConstants(%d) = (%d, %d), want (%d, %d)", tt.radius, mul, shift, tt.mul, tt.shift)
		}
	}
}

func TestDivisorConstantsApproximateDivision(t *testing.T) {
	for r := 0; r <= MaxRadius; r++ {
		mul, shift := DivisorConstants(r)
		d := uint64((r + 1) * (r + 1))

		// Every sum the sweep can produce is at most 255*d.
		for s := uint64(0); s <= 255*d; s += d/7 + 1 {
			got := s * uint64(mul) >> shift
			want := (2*s + d) / (2 * d)
			if got+1 < want || got > want+1 {
				t.Fatalf("radius %d: (%d*%d)>>%d = %d, want %d±1", r, s, mul, shift, got, want)
			}
		}

		if got := 255 * d * uint64(mul) >> shift; got != 255 {
			t.Errorf("radius %d: full-scale sum maps to %d, want 255", r, got)
		}
	}
}

func TestDivisorConstantsFitUint32Product(t *testing.T) {
	for r := 0; r <= MaxRadius; r++ {
		mul, _ := DivisorConstants(r)
		d := uint64((r + 1) * (r + 1))
		if p := 255 * d * uint64(mul); p > 1<<32-1 {
			t.Errorf("radius %d: product %d overflows 32 bits", r, p)
		}
	}
}
