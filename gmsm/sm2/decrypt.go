package sm2

import (
	"crypto/subtle"
	"fmt"
	"math/big"

	"github.com/gmsmcore/sm2enc/gmsm/kdf"
	"github.com/gmsmcore/sm2enc/gmsm/sm3"
)

// decryptCore runs an on-curve check before any scalar multiplication by
// the private scalar, rejects an all-zero KDF output, and compares the
// integrity tag in constant time.
func decryptCore(priv *PrivateKey, ct *Ciphertext) ([]byte, error) {
	curve := priv.Curve

	x1 := new(big.Int).SetBytes(ct.X)
	y1 := new(big.Int).SetBytes(ct.Y)
	if !isOnCurve(curve, x1, y1) {
		return nil, ErrMalformed
	}

	x2, y2 := scalarMult(curve, x1, y1, priv.D)
	x2Buf := coordToBytes(x2)
	y2Buf := coordToBytes(y2)
	x2y2 := make([]byte, 0, 2*coordSize)
	x2y2 = append(x2y2, x2Buf...)
	x2y2 = append(x2y2, y2Buf...)

	t, allZero := kdf.Derive(sm3.New(), x2y2, len(ct.Body))
	if allZero {
		wipeInt(x2)
		wipeInt(y2)
		wipe(x2Buf)
		wipe(y2Buf)
		wipe(x2y2)
		wipe(t)
		return nil, ErrDecryptionFailed
	}

	msg := make([]byte, len(ct.Body))
	for i := range ct.Body {
		msg[i] = ct.Body[i] ^ t[i]
	}

	tagInput := make([]byte, 0, len(x2Buf)+len(msg)+len(y2Buf))
	tagInput = append(tagInput, x2Buf...)
	tagInput = append(tagInput, msg...)
	tagInput = append(tagInput, y2Buf...)
	want := sm3.Sum(tagInput)

	ok := subtle.ConstantTimeCompare(want[:], ct.Hash) == 1

	wipeInt(x2)
	wipeInt(y2)
	wipe(x2Buf)
	wipe(y2Buf)
	wipe(x2y2)
	wipe(t)
	wipe(tagInput)

	if !ok {
		wipe(msg)
		return nil, ErrDecryptionFailed
	}
	return msg, nil
}

// Decrypt performs a one-shot SM2 decryption of the canonical DER-encoded
// ciphertext der under priv.
func Decrypt(priv *PrivateKey, der []byte) ([]byte, error) {
	if priv == nil {
		return nil, fmt.Errorf("%w: nil private key", ErrBadArgument)
	}
	ct, err := decodeCiphertextDER(der)
	if err != nil {
		return nil, err
	}
	return decryptCore(priv, ct)
}
