package sm2

import (
	"crypto/elliptic"
	"crypto/rand"
	"io"
	"math/big"
	"sync"
)

// coordSize is the byte length of a single big-endian coordinate on the
// SM2 curve, and also the scalar size: the curve's prime field and group
// order both fit in 256 bits.
const coordSize = 32

var (
	one        = big.NewInt(1)
	p256Once   sync.Once
	p256Params *elliptic.CurveParams
)

// P256 returns the SM2 recommended curve, the 256-bit prime-field curve
// fixed by GB/T 32918.5. Its coefficient a equals p-3, so the generic
// Jacobian point arithmetic in crypto/elliptic.CurveParams (which hardcodes
// a = -3) is exact for this curve; no custom field arithmetic is needed.
func P256() elliptic.Curve {
	p256Once.Do(initP256)
	return p256Params
}

func initP256() {
	p256Params = &elliptic.CurveParams{Name: "SM2-P-256"}
	p256Params.P, _ = new(big.Int).SetString("FFFFFFFEFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF00000000FFFFFFFFFFFFFFFF", 16)
	p256Params.N, _ = new(big.Int).SetString("FFFFFFFEFFFFFFFFFFFFFFFFFFFFFFFF7203DF6B21C6052B53BBF40939D54123", 16)
	p256Params.B, _ = new(big.Int).SetString("28E9FA9E9D9F5E344D5A9E4BCF6509A7F39789F515AB8F92DDBCBD414D940E93", 16)
	p256Params.Gx, _ = new(big.Int).SetString("32C4AE2C1F1981195F9904466A39C9948FE30BBFF2660BE1715A4589334C74C7", 16)
	p256Params.Gy, _ = new(big.Int).SetString("BC3736A2F4F6779C59BDCEE36B692153D0A9877CC62A474002DF32E52139F0A0", 16)
	p256Params.BitSize = 256
}

// randScalar draws a scalar uniformly from [1, n-1] by rejection sampling
// against a zero result.
func randScalar(curve elliptic.Curve, random io.Reader) (*big.Int, error) {
	if random == nil {
		random = rand.Reader
	}
	params := curve.Params()
	nMinusOne := new(big.Int).Sub(params.N, one)
	b := make([]byte, params.BitSize/8+8)
	for {
		if _, err := io.ReadFull(random, b); err != nil {
			return nil, err
		}
		k := new(big.Int).SetBytes(b)
		k.Mod(k, nMinusOne)
		k.Add(k, one)
		if k.Sign() != 0 {
			return k, nil
		}
	}
}

// scalarBaseMult computes k*G.
func scalarBaseMult(curve elliptic.Curve, k *big.Int) (x, y *big.Int) {
	return curve.ScalarBaseMult(k.Bytes())
}

// scalarMult computes k*P for an arbitrary point P.
func scalarMult(curve elliptic.Curve, x, y *big.Int, k *big.Int) (rx, ry *big.Int) {
	return curve.ScalarMult(x, y, k.Bytes())
}

// isOnCurve reports whether (x, y) is a point on curve.
func isOnCurve(curve elliptic.Curve, x, y *big.Int) bool {
	if x == nil || y == nil {
		return false
	}
	return curve.IsOnCurve(x, y)
}

// coordToBytes renders a coordinate as a fixed coordSize-byte big-endian
// slice, left-zero-padding short values.
func coordToBytes(v *big.Int) []byte {
	buf := make([]byte, coordSize)
	b := v.Bytes()
	if len(b) > coordSize {
		b = b[len(b)-coordSize:]
	}
	copy(buf[coordSize-len(b):], b)
	return buf
}

