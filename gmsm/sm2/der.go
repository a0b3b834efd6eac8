package sm2

import (
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// derLengthLen returns the number of bytes a DER length field needs to
// encode n, under the distinguished (shortest-form) encoding rules.
func derLengthLen(n int) int {
	if n < 128 {
		return 1
	}
	l := 1
	for n > 0 {
		l++
		n >>= 8
	}
	return l
}

// integerPayload returns the DER INTEGER payload for a non-negative v: its
// big-endian magnitude, with a leading 0x00 sign byte if the magnitude's
// top bit would otherwise be set.
func integerPayload(v *big.Int) []byte {
	b := v.Bytes()
	if len(b) == 0 {
		return []byte{0}
	}
	if b[0]&0x80 != 0 {
		return append([]byte{0}, b...)
	}
	return b
}

// derIntegerLen computes the DER-encoded length of v without emitting any
// bytes, the measure-then-emit query the fixed point-size retry loop needs
// before committing to a candidate ephemeral scalar.
func derIntegerLen(v *big.Int) int {
	payloadLen := len(integerPayload(v))
	return 1 + derLengthLen(payloadLen) + payloadLen
}

// derOctetStringLen computes the DER-encoded length of an n-byte OCTET
// STRING payload without emitting any bytes.
func derOctetStringLen(n int) int {
	return 1 + derLengthLen(n) + n
}

// derSeqHeaderLen computes the length of a SEQUENCE tag+length header
// whose content is contentLen bytes long.
func derSeqHeaderLen(contentLen int) int {
	return 1 + derLengthLen(contentLen)
}

// addASN1Integer appends a DER INTEGER built from v's magnitude, applying
// the same sign-byte rule as integerPayload.
func addASN1Integer(b *cryptobyte.Builder, v *big.Int) {
	payload := integerPayload(v)
	b.AddASN1(asn1.INTEGER, func(c *cryptobyte.Builder) {
		c.AddBytes(payload)
	})
}

// encodeCiphertextDER renders ct as the canonical DER SEQUENCE of
// (INTEGER x, INTEGER y, OCTET STRING hash, OCTET STRING body).
func encodeCiphertextDER(ct *Ciphertext) ([]byte, error) {
	x := new(big.Int).SetBytes(ct.X)
	y := new(big.Int).SetBytes(ct.Y)
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		addASN1Integer(b, x)
		addASN1Integer(b, y)
		b.AddASN1OctetString(ct.Hash)
		b.AddASN1OctetString(ct.Body)
	})
	return b.Bytes()
}

// decodeCiphertextDER parses der into a Ciphertext, enforcing every
// structural rule from the decoding contract: full-slice consumption, the
// 32-byte coordinate and hash bounds, the plaintext body bound, and the
// on-curve check on the decoded point.
func decodeCiphertextDER(der []byte) (*Ciphertext, error) {
	var (
		x1, y1     = new(big.Int), new(big.Int)
		hash, body []byte
		inner      cryptobyte.String
	)
	input := cryptobyte.String(der)
	if !input.ReadASN1(&inner, asn1.SEQUENCE) || !input.Empty() {
		return nil, ErrMalformed
	}
	if !inner.ReadASN1Integer(x1) || !inner.ReadASN1Integer(y1) {
		return nil, ErrMalformed
	}
	if !inner.ReadASN1Bytes(&hash, asn1.OCTET_STRING) {
		return nil, ErrMalformed
	}
	if !inner.ReadASN1Bytes(&body, asn1.OCTET_STRING) {
		return nil, ErrMalformed
	}
	if !inner.Empty() {
		return nil, ErrMalformed
	}
	if x1.Sign() < 0 || y1.Sign() < 0 {
		return nil, ErrMalformed
	}
	if (x1.BitLen()+7)/8 > coordSize || (y1.BitLen()+7)/8 > coordSize {
		return nil, ErrMalformed
	}
	if len(hash) != sm3Size {
		return nil, ErrMalformed
	}
	if len(body) > MaxPlaintext {
		return nil, ErrMalformed
	}
	if !isOnCurve(P256(), x1, y1) {
		return nil, ErrMalformed
	}
	return &Ciphertext{
		X:    coordToBytes(x1),
		Y:    coordToBytes(y1),
		Hash: hash,
		Body: body,
	}, nil
}
