package sm2

import "math/big"

// Ciphertext is the in-memory representation of an SM2 ciphertext: the
// ephemeral point (X, Y), the SM3 integrity tag Hash, and the XOR-encrypted
// Body. X and Y are always exactly coordSize bytes, left-zero-padded;
// Hash is always exactly sm3.Size bytes.
type Ciphertext struct {
	X, Y []byte
	Hash []byte
	Body []byte
}

// PointSize selects one of the three DER-encoded lengths the ephemeral
// point's (INTEGER x, INTEGER y) pair can take, depending on how many of
// the two coordinates need a DER sign byte.
type PointSize int

const (
	// CompactPointSize is the encoded pair length when neither coordinate
	// needs a sign byte: two 34-byte INTEGERs (tag + length + 32 payload).
	CompactPointSize PointSize = 2 * (2 + coordSize)
	// TypicalPointSize is the encoded pair length when exactly one
	// coordinate needs a sign byte.
	TypicalPointSize PointSize = CompactPointSize + 1
	// MaxPointSize is the encoded pair length when both coordinates need
	// a sign byte.
	MaxPointSize PointSize = CompactPointSize + 2
)

// MaxRetries bounds the fixed point-size retry loop.
const MaxRetries = 200

const (
	// MinPlaintext is the minimum plaintext length accepted by Encrypt.
	MinPlaintext = 1
	// MaxPlaintext is the maximum plaintext length accepted by Encrypt,
	// and the maximum ciphertext body length accepted on decode.
	MaxPlaintext = 1 << 20 // 1 MiB
)

// sm3Size avoids importing the sm3 package just for its Size constant in
// places that only need an untyped int for length arithmetic.
const sm3Size = 32

// ciphertextDERLen computes the total DER-encoded length of a ciphertext
// with the given ephemeral-point encoding size and body length.
func ciphertextDERLen(pointSize PointSize, bodyLen int) int {
	contentLen := int(pointSize) + derOctetStringLen(sm3Size) + derOctetStringLen(bodyLen)
	return derSeqHeaderLen(contentLen) + contentLen
}

// MaxCiphertext is the largest possible DER-encoded ciphertext size for a
// body of MaxPlaintext bytes and the widest point-size encoding.
var MaxCiphertext = ciphertextDERLen(MaxPointSize, MaxPlaintext)

// integerPairLen returns the DER-encoded length of the (INTEGER x,
// INTEGER y) pair for the given coordinates, compared against a
// PointSize preset by the fixed point-size retry loop.
func integerPairLen(x, y *big.Int) int {
	return derIntegerLen(x) + derIntegerLen(y)
}
