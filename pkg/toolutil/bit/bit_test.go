package bit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitJoinRoundTrip(t *testing.T) {
	hi, lo := SplitUint16ToBytes(0x82C2)
	assert.Equal(t, byte(0x82), hi)
	assert.Equal(t, byte(0xC2), lo)
	assert.Equal(t, uint16(0x82C2), JoinBytesLEUint16(lo, hi))
}

func TestExtractBits(t *testing.T) {
	v16 := uint16(0b1011001111001010)
	assert.Equal(t, uint16(0b1110), ExtractBits(v16, 4, 4))
	assert.Equal(t, uint16(1), ExtractBits(v16, 15, 1))
	assert.Equal(t, uint16(0), ExtractBits(v16, 4, 1))
}

func TestSetFieldNames(t *testing.T) {
	fields := []*BitField{
		{Name: "A", Start: 0, Len: 1},
		{Name: "B", Start: 3, Len: 2},
		{Name: "C", Start: 7, Len: 1},
	}
	assert.Nil(t, SetFieldNames(fields, 0))
	assert.Equal(t, []string{"A", "C"}, SetFieldNames(fields, 0b10000001))
	assert.Equal(t, []string{"B"}, SetFieldNames(fields, 0b01000))
}

func TestEvalAll(t *testing.T) {
	fields := []*BitField{
		{Name: "LOW", Start: 0, Len: 4},
		{Name: "HIGH", Start: 4, Len: 4},
	}
	vals := EvalAll(fields, 0xA5)
	assert.Len(t, vals, 2)
	assert.Equal(t, uint64(0x5), vals[0].Value)
	assert.Equal(t, uint64(0xA), vals[1].Value)
}
