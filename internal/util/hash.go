package util

import (
	"hash/maphash"
	"strings"
)

var seed = maphash.MakeSeed()

// HashString returns a process-stable hash of s.
func HashString(s string) uint64 { return maphash.String(seed, s) }

// HashFold returns a hash of s that is equal for strings equal under ASCII case folding.
func HashFold(s string) uint64 { return maphash.String(seed, strings.ToLower(s)) }

// HashBool returns distinct non-zero hashes for true and false.
func HashBool(b bool) uint64 {
	if b {
		return 0x9e3779b97f4a7c15
	}
	return 0x7f4a7c159e3779b9
}
