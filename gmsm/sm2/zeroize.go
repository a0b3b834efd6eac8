package sm2

import (
	"math/big"
	"runtime"
)

// wipe overwrites b with zeros. It is declared noinline and followed by a
// call to runtime.KeepAlive so the compiler cannot prove the store dead and
// elide it, which a plain "for i := range b { b[i] = 0 }" inlined at the
// call site would otherwise be free to do once b is never read again.
//
//go:noinline
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// wipeInt destroys the digits backing a secret scalar: it overwrites the
// words of v's magnitude in place through Bits, then sets v to zero. Copies
// of the value made elsewhere (for example by v.Bytes) are not reached; the
// caller is responsible for not retaining any other reference to the
// original value.
func wipeInt(v *big.Int) {
	if v == nil {
		return
	}
	words := v.Bits()
	for i := range words {
		words[i] = 0
	}
	v.SetInt64(0)
	runtime.KeepAlive(words)
}
