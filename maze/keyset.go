package maze

import (
	"math/bits"
	"strings"
)

// MaxKeys is the size of the key alphabet, 'a' to 'z'.
const MaxKeys = 26

// KeySet is a bitmask of key ids, bit 0 for 'a'.
type KeySet uint32

func keyBit(id byte) KeySet {
	return 1 << (id - 'a')
}

func (k KeySet) Has(id byte) bool {
	return k&keyBit(id) != 0
}

// With returns k plus id; k itself is unchanged.
func (k KeySet) With(id byte) KeySet {
	return k | keyBit(id)
}

// ContainsAll reports whether other is a subset of k.
func (k KeySet) ContainsAll(other KeySet) bool {
	return k&other == other
}

func (k KeySet) Len() int {
	return bits.OnesCount32(uint32(k))
}

func (k KeySet) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i := 0; i < MaxKeys; i++ {
		if k&(1<<i) != 0 {
			b.WriteByte(byte('a' + i))
		}
	}
	b.WriteByte('}')
	return b.String()
}
