// Package kdf implements the key derivation function from GM/T 0003.3,
// the counter-mode keystream built on top of an arbitrary hash.Hash.
package kdf

import (
	"crypto/subtle"
	"encoding/binary"
	"hash"
)

// Derive produces a len-byte keystream from z using md as the underlying
// hash, resetting md before use. The second return value reports whether
// the derived keystream is all-zero, which the SM2 encryption core must
// treat as a failed attempt and retry with a fresh ephemeral scalar.
func Derive(md hash.Hash, z []byte, len int) (k []byte, allZero bool) {
	limit := uint64(len+md.Size()-1) / uint64(md.Size())
	if limit >= uint64(1<<32)-1 {
		panic("kdf: key length too long")
	}
	md.Reset()
	var countBytes [4]byte
	var ct uint32 = 1
	k = make([]byte, len)
	for i := 0; i < int(limit); i++ {
		binary.BigEndian.PutUint32(countBytes[:], ct)
		md.Write(z)
		md.Write(countBytes[:])
		copy(k[i*md.Size():], md.Sum(nil))
		ct++
		md.Reset()
	}
	zero := make([]byte, len)
	allZero = subtle.ConstantTimeCompare(k, zero) == 1
	return k, allZero
}
