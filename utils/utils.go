package utils

import (
	"github.com/twmb/murmur3"
)

func HashString(s string) uint64 {
	hash := murmur3.New64()
	_, err := hash.Write([]byte(s))
	if err != nil {
		panic(err)
	}
	return hash.Sum64()
}

// HashStrings hashes the sequence as a whole; parts are length prefixed so
// ("ab", "c") and ("a", "bc") differ.
func HashStrings(ss ...string) uint64 {
	hash := murmur3.New64()
	var size [8]byte
	for _, s := range ss {
		n := uint64(len(s))
		for i := range size {
			size[i] = byte(n >> (8 * i))
		}
		if _, err := hash.Write(size[:]); err != nil {
			panic(err)
		}
		if _, err := hash.Write([]byte(s)); err != nil {
			panic(err)
		}
	}
	return hash.Sum64()
}
