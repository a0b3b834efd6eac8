package sm2

import "errors"

// Sentinel errors returned by the encryption core. Callers should compare
// with errors.Is; the wrapped messages may carry additional detail.
var (
	ErrBadArgument       = errors.New("sm2: bad argument")
	ErrMalformed         = errors.New("sm2: malformed ciphertext")
	ErrDecryptionFailed  = errors.New("sm2: decryption failed")
	ErrRandomnessFailure = errors.New("sm2: randomness source failed")
	ErrRetryExhausted    = errors.New("sm2: exceeded maximum retry attempts")
)
