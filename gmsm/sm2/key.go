package sm2

import (
	"crypto/ecdsa"
	"io"
)

// PublicKey is an SM2 public key: a curve point P = d*G.
type PublicKey struct {
	ecdsa.PublicKey
}

// PrivateKey is an SM2 private key: a scalar d together with its public
// point.
type PrivateKey struct {
	ecdsa.PrivateKey
}

// Public returns the public half of priv.
func (priv *PrivateKey) Public() *PublicKey {
	return &PublicKey{priv.PublicKey}
}

// GenerateKey produces a fresh SM2 keypair using random as the entropy
// source: a rejection-sampled scalar in [1, n-1] with public point d*G.
func GenerateKey(random io.Reader) (*PrivateKey, error) {
	curve := P256()
	d, err := randScalar(curve, random)
	if err != nil {
		return nil, err
	}
	x, y := scalarBaseMult(curve, d)
	priv := new(PrivateKey)
	priv.Curve = curve
	priv.D = d
	priv.X = x
	priv.Y = y
	return priv, nil
}
