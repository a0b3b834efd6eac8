package sm2

import (
	"fmt"
	"io"

	"github.com/gmsmcore/sm2enc/gmsm/kdf"
	"github.com/gmsmcore/sm2enc/gmsm/sm3"
)

// encryptCore is the single attempt body behind both the plain and the
// fixed point-size encryption variants: an explicit bounded loop with one
// attempt path. The two retry reasons, an all-zero keystream and a
// point-size mismatch, share a restart point, but only the point-size
// mismatch consumes the attempt counter. size is nil for the plain variant.
func encryptCore(pub *PublicKey, msg []byte, random io.Reader, size *PointSize) (*Ciphertext, error) {
	curve := pub.Curve
	attempts := 0
	for {
		k, err := randScalar(curve, random)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRandomnessFailure, err)
		}

		x1, y1 := scalarBaseMult(curve, k)

		if size != nil {
			if integerPairLen(x1, y1) != int(*size) {
				wipeInt(k)
				attempts++
				if attempts >= MaxRetries {
					return nil, ErrRetryExhausted
				}
				continue
			}
		}

		x2, y2 := scalarMult(curve, pub.X, pub.Y, k)
		x2Buf := coordToBytes(x2)
		y2Buf := coordToBytes(y2)
		x2y2 := make([]byte, 0, 2*coordSize)
		x2y2 = append(x2y2, x2Buf...)
		x2y2 = append(x2y2, y2Buf...)

		t, allZero := kdf.Derive(sm3.New(), x2y2, len(msg))
		if allZero {
			wipeInt(k)
			wipeInt(x2)
			wipeInt(y2)
			wipe(x2Buf)
			wipe(y2Buf)
			wipe(x2y2)
			wipe(t)
			continue
		}

		body := make([]byte, len(msg))
		for i := range msg {
			body[i] = msg[i] ^ t[i]
		}

		tagInput := make([]byte, 0, len(x2Buf)+len(msg)+len(y2Buf))
		tagInput = append(tagInput, x2Buf...)
		tagInput = append(tagInput, msg...)
		tagInput = append(tagInput, y2Buf...)
		tag := sm3.Sum(tagInput)

		wipeInt(k)
		wipeInt(x2)
		wipeInt(y2)
		wipe(x2Buf)
		wipe(y2Buf)
		wipe(x2y2)
		wipe(t)
		wipe(tagInput)

		return &Ciphertext{
			X:    coordToBytes(x1),
			Y:    coordToBytes(y1),
			Hash: tag[:],
			Body: body,
		}, nil
	}
}

// Encrypt performs a one-shot SM2 encryption of msg under pub, returning
// the canonical DER-encoded ciphertext.
func Encrypt(random io.Reader, pub *PublicKey, msg []byte) ([]byte, error) {
	if pub == nil {
		return nil, fmt.Errorf("%w: nil public key", ErrBadArgument)
	}
	if len(msg) < MinPlaintext {
		return nil, fmt.Errorf("%w: empty plaintext", ErrBadArgument)
	}
	if len(msg) > MaxPlaintext {
		return nil, fmt.Errorf("%w: plaintext too large", ErrBadArgument)
	}
	ct, err := encryptCore(pub, msg, random, nil)
	if err != nil {
		return nil, err
	}
	return encodeCiphertextDER(ct)
}

// EncryptFixedLen performs a one-shot SM2 encryption like Encrypt but
// retries the ephemeral scalar until the encoded (x, y) pair lands on the
// caller-requested size, up to MaxRetries attempts.
func EncryptFixedLen(random io.Reader, pub *PublicKey, msg []byte, size PointSize) ([]byte, error) {
	if pub == nil {
		return nil, fmt.Errorf("%w: nil public key", ErrBadArgument)
	}
	if len(msg) < MinPlaintext {
		return nil, fmt.Errorf("%w: empty plaintext", ErrBadArgument)
	}
	if len(msg) > MaxPlaintext {
		return nil, fmt.Errorf("%w: plaintext too large", ErrBadArgument)
	}
	switch size {
	case CompactPointSize, TypicalPointSize, MaxPointSize:
	default:
		return nil, fmt.Errorf("%w: invalid point size", ErrBadArgument)
	}
	ct, err := encryptCore(pub, msg, random, &size)
	if err != nil {
		return nil, err
	}
	return encodeCiphertextDER(ct)
}
