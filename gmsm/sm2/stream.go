package sm2

import (
	"fmt"
	"io"
)

// streamState tracks where a streaming context sits in its lifecycle: it
// rejects any Update or Finish call made after Finish rather than leaving
// reuse-after-finish undocumented and unchecked.
type streamState int

const (
	streamFresh streamState = iota
	streamUpdating
	streamFinished
)

var errStreamFinished = fmt.Errorf("%w: streaming context already finished", ErrBadArgument)

// EncryptContext is a streaming accumulator for encryption: callers append
// plaintext in chunks via Update, then call Finish once to run the
// one-shot encryption over everything accumulated.
type EncryptContext struct {
	pub   PublicKey
	rand  io.Reader
	buf   []byte
	state streamState
}

// InitEncrypt zeroes ctx and copies pub by value.
func InitEncrypt(ctx *EncryptContext, pub *PublicKey, random io.Reader) error {
	if pub == nil {
		return fmt.Errorf("%w: nil public key", ErrBadArgument)
	}
	*ctx = EncryptContext{pub: *pub, rand: random, state: streamFresh}
	return nil
}

// Update appends a chunk of plaintext to the internal buffer. It returns
// an error if doing so would exceed MaxPlaintext, or if the context has
// already been finished.
func (ctx *EncryptContext) Update(chunk []byte) error {
	if ctx.state == streamFinished {
		return errStreamFinished
	}
	if len(ctx.buf)+len(chunk) > MaxPlaintext {
		return fmt.Errorf("%w: accumulated plaintext too large", ErrBadArgument)
	}
	ctx.buf = append(ctx.buf, chunk...)
	ctx.state = streamUpdating
	return nil
}

// Finish appends a final chunk (which may be empty) to the buffer and runs
// one-shot encryption over the whole accumulated plaintext. When no prior
// chunk was accumulated, final is treated as the entire message and
// encrypted directly, avoiding an unnecessary copy. The context may not be
// used again afterward.
func (ctx *EncryptContext) Finish(final []byte) ([]byte, error) {
	if ctx.state == streamFinished {
		return nil, errStreamFinished
	}
	msg := final
	if len(ctx.buf) > 0 {
		if len(ctx.buf)+len(final) > MaxPlaintext {
			return nil, fmt.Errorf("%w: accumulated plaintext too large", ErrBadArgument)
		}
		msg = append(ctx.buf, final...)
	}
	ctx.state = streamFinished
	ctx.buf = nil
	return Encrypt(ctx.rand, &ctx.pub, msg)
}

// DecryptContext is a streaming accumulator for decryption: callers append
// DER-encoded ciphertext bytes in chunks, then call Finish once to run the
// one-shot decryption over everything accumulated.
type DecryptContext struct {
	priv  PrivateKey
	buf   []byte
	state streamState
}

// InitDecrypt zeroes ctx and copies priv by value.
func InitDecrypt(ctx *DecryptContext, priv *PrivateKey) error {
	if priv == nil {
		return fmt.Errorf("%w: nil private key", ErrBadArgument)
	}
	*ctx = DecryptContext{priv: *priv, state: streamFresh}
	return nil
}

// Update appends a chunk of ciphertext bytes to the internal buffer.
func (ctx *DecryptContext) Update(chunk []byte) error {
	if ctx.state == streamFinished {
		return errStreamFinished
	}
	if len(ctx.buf)+len(chunk) > MaxCiphertext {
		return fmt.Errorf("%w: accumulated ciphertext too large", ErrBadArgument)
	}
	ctx.buf = append(ctx.buf, chunk...)
	ctx.state = streamUpdating
	return nil
}

// Finish appends a final chunk to the buffer and runs one-shot decryption
// over the whole accumulated ciphertext. The context may not be used
// again afterward.
func (ctx *DecryptContext) Finish(final []byte) ([]byte, error) {
	if ctx.state == streamFinished {
		return nil, errStreamFinished
	}
	der := final
	if len(ctx.buf) > 0 {
		if len(ctx.buf)+len(final) > MaxCiphertext {
			return nil, fmt.Errorf("%w: accumulated ciphertext too large", ErrBadArgument)
		}
		der = append(ctx.buf, final...)
	}
	ctx.state = streamFinished
	ctx.buf = nil
	return Decrypt(&ctx.priv, der)
}

// MaxOutputLen returns the largest possible ciphertext length Finish can
// produce, letting a caller size an output buffer up front.
func (ctx *EncryptContext) MaxOutputLen() int { return MaxCiphertext }

// MaxOutputLen returns the maximum possible output length for direction.
func (ctx *DecryptContext) MaxOutputLen() int { return MaxPlaintext }
