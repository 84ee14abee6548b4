package blur

import "math/bits"

// MaxRadius is the largest radius covered by the division table.
const MaxRadius = 254

var (
	mulTable   [MaxRadius + 1]uint32
	shiftTable [MaxRadius + 1]uint8
)

func init() {
	for r := 0; r <= MaxRadius; r++ {
		mulTable[r], shiftTable[r] = deriveDivisor(uint32((r + 1) * (r + 1)))
	}
}

// deriveDivisor picks the shift that puts 2^shift/d in (256, 512] and rounds
// the multiplier up, so that 255*d maps back to exactly 255.
func deriveDivisor(d uint32) (uint32, uint8) {
	shift := uint8(9 + bits.Len32(d) - 1)
	pow := uint64(1) << shift
	mul := (pow + uint64(d) - 1) / uint64(d)
	return uint32(mul), shift
}

// DivisorConstants returns the fixed-point constants replacing a division by
// (radius+1)² with (v*mul)>>shift. Radius must be in [0, MaxRadius].
func DivisorConstants(radius int) (mul uint32, shift uint8) {
	return mulTable[radius], shiftTable[radius]
}
