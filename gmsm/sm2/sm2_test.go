package sm2_test

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"math/big"
	"testing"

	"github.com/gmsmcore/sm2enc/gmsm/sm2"
)

func mustHexInt(t *testing.T, s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		t.Fatalf("bad hex literal %q", s)
	}
	return v
}

func keyFromD(t *testing.T, dHex string) *sm2.PrivateKey {
	curve := sm2.P256()
	d := mustHexInt(t, dHex)
	x, y := curve.ScalarBaseMult(d.Bytes())
	return &sm2.PrivateKey{
		PrivateKey: ecdsa.PrivateKey{
			PublicKey: ecdsa.PublicKey{Curve: curve, X: x, Y: y},
			D:         d,
		},
	}
}

// TestStandardVectorS1 exercises the GM/T 0003 standard test vector: a
// fixed private key and a fixed ephemeral scalar k, injected through the
// random source the same way the public API always draws its ephemeral
// scalar. randScalar reduces its 40-byte random draw modulo n-1 and adds
// one, so feeding it the big-endian encoding of (k-1) makes it produce
// exactly k.
func TestStandardVectorS1(t *testing.T) {
	const dHex = "1649AB77A00637BD5E2EFE283FBF353534AA7F7CB89463F208DDBC2920BB0DA0"
	const kHex = "4C62EEFD6ECFC2B95B92FD6C3D9575148AFA17425546D49018E5388D49DD7B4F"
	const plaintext = "encryption standard"
	const wantDER = "307c022011c88ae04cec1ba554d03d5b5970333a83585826c2a985de5520d9e" +
		"934389efb02210084b52d344fb21aa8ea38a4940c8332692b8d4da2393549212" +
		"eafdc0f11ca5c9c04200137e757931553826a245a0baef73e2a693a861c6e935" +
		"09cda65c2b97c0ab2ed0413d76b28b93a4b3765997a3bbc58f998731d0aa2"

	priv := keyFromD(t, dHex)
	pub := priv.Public()

	k := mustHexInt(t, kHex)
	kMinusOne := new(big.Int).Sub(k, big.NewInt(1))
	seed := make([]byte, 40)
	kMinusOne.FillBytes(seed[8:])

	got, err := sm2.Encrypt(bytes.NewReader(seed), pub, []byte(plaintext))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	want, err := hex.DecodeString(wantDER)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("Encrypt with fixed k = %x, want %x", got, want)
	}

	plain, err := sm2.Decrypt(priv, want)
	if err != nil {
		t.Fatalf("Decrypt(standard vector): %v", err)
	}
	if string(plain) != plaintext {
		t.Fatalf("Decrypt(standard vector) = %q, want %q", plain, plaintext)
	}
}

func TestEmptyPlaintextRejected(t *testing.T) {
	priv, err := sm2.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sm2.Encrypt(rand.Reader, priv.Public(), nil); err == nil {
		t.Fatal("Encrypt(empty) succeeded, want ErrBadArgument")
	}
}

func TestOversizePlaintextRejected(t *testing.T) {
	priv, err := sm2.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	oversize := make([]byte, sm2.MaxPlaintext+1)
	if _, err := sm2.Encrypt(rand.Reader, priv.Public(), oversize); err == nil {
		t.Fatal("Encrypt(oversize) succeeded, want ErrBadArgument")
	}
}

func TestRoundTrip(t *testing.T) {
	priv, err := sm2.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range []int{1, 16, 19, 100, 1000} {
		msg := bytes.Repeat([]byte{0x5a}, n)
		ct, err := sm2.Encrypt(rand.Reader, priv.Public(), msg)
		if err != nil {
			t.Fatalf("Encrypt(len=%d): %v", n, err)
		}
		plain, err := sm2.Decrypt(priv, ct)
		if err != nil {
			t.Fatalf("Decrypt(len=%d): %v", n, err)
		}
		if !bytes.Equal(plain, msg) {
			t.Fatalf("round trip mismatch at len=%d", n)
		}
	}
}

func TestBodyTamperRejected(t *testing.T) {
	priv, err := sm2.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	ct, err := sm2.Encrypt(rand.Reader, priv.Public(), []byte("tamper test message"))
	if err != nil {
		t.Fatal(err)
	}
	tampered := append([]byte{}, ct...)
	// Flip a bit inside the ciphertext's trailing bytes, which cover the
	// OCTET STRING body payload for this short message.
	tampered[len(tampered)-1] ^= 0x01
	if _, err := sm2.Decrypt(priv, tampered); err != sm2.ErrDecryptionFailed {
		t.Fatalf("Decrypt(tampered) = %v, want ErrDecryptionFailed", err)
	}
}

func TestOnCurveRejection(t *testing.T) {
	priv, err := sm2.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	ct, err := sm2.Encrypt(rand.Reader, priv.Public(), []byte("on curve check"))
	if err != nil {
		t.Fatal(err)
	}
	// Corrupt the high byte of the x-coordinate INTEGER payload; for an
	// overwhelming majority of corruptions the resulting point is not on
	// the curve.
	tampered := append([]byte{}, ct...)
	tampered[4] ^= 0xff
	if _, err := sm2.Decrypt(priv, tampered); err != sm2.ErrMalformed {
		t.Fatalf("Decrypt(bad point) = %v, want ErrMalformed", err)
	}
}

func TestRepeatedDecodeSameDER(t *testing.T) {
	priv, err := sm2.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	ct, err := sm2.Encrypt(rand.Reader, priv.Public(), []byte("idempotence check"))
	if err != nil {
		t.Fatal(err)
	}
	plain1, err := sm2.Decrypt(priv, ct)
	if err != nil {
		t.Fatal(err)
	}
	plain2, err := sm2.Decrypt(priv, ct)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(plain1, plain2) {
		t.Fatal("repeated decode of the same DER produced different plaintext")
	}
}

func TestTrailingByteRejected(t *testing.T) {
	priv, err := sm2.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	ct, err := sm2.Encrypt(rand.Reader, priv.Public(), []byte("trailing byte check"))
	if err != nil {
		t.Fatal(err)
	}
	withTrailer := append(append([]byte{}, ct...), 0x00)
	if _, err := sm2.Decrypt(priv, withTrailer); err != sm2.ErrMalformed {
		t.Fatalf("Decrypt(trailing byte) = %v, want ErrMalformed", err)
	}
}

func TestEphemeralIndependence(t *testing.T) {
	priv, err := sm2.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	msg := []byte("same message twice")
	ct1, err := sm2.Encrypt(rand.Reader, priv.Public(), msg)
	if err != nil {
		t.Fatal(err)
	}
	ct2, err := sm2.Encrypt(rand.Reader, priv.Public(), msg)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(ct1, ct2) {
		t.Fatal("two encryptions of the same message with fresh randomness produced identical ciphertexts")
	}
}

func TestStreamingEquivalence(t *testing.T) {
	priv, err := sm2.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	m1, m2, m3 := []byte("part one "), []byte("part two "), []byte("part three")
	full := append(append(append([]byte{}, m1...), m2...), m3...)

	var enc sm2.EncryptContext
	if err := sm2.InitEncrypt(&enc, priv.Public(), rand.Reader); err != nil {
		t.Fatal(err)
	}
	if err := enc.Update(m1); err != nil {
		t.Fatal(err)
	}
	if err := enc.Update(m2); err != nil {
		t.Fatal(err)
	}
	ct, err := enc.Finish(m3)
	if err != nil {
		t.Fatal(err)
	}

	plain, err := sm2.Decrypt(priv, ct)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(plain, full) {
		t.Fatalf("streaming decrypt = %q, want %q", plain, full)
	}

	if _, err := enc.Finish(nil); !errors.Is(err, sm2.ErrBadArgument) {
		t.Fatalf("Finish after Finish = %v, want wrapped ErrBadArgument", err)
	}
}

func TestFixedLenRetrySuccess(t *testing.T) {
	priv, err := sm2.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	for _, size := range []sm2.PointSize{sm2.CompactPointSize, sm2.TypicalPointSize, sm2.MaxPointSize} {
		ct, err := sm2.EncryptFixedLen(rand.Reader, priv.Public(), []byte("fixed length"), size)
		if err != nil {
			t.Fatalf("EncryptFixedLen(size=%d): %v", size, err)
		}
		plain, err := sm2.Decrypt(priv, ct)
		if err != nil {
			t.Fatalf("Decrypt after EncryptFixedLen(size=%d): %v", size, err)
		}
		if string(plain) != "fixed length" {
			t.Fatalf("got %q", plain)
		}
	}
}

func TestLengthMatchingFormula(t *testing.T) {
	priv, err := sm2.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	msg := []byte("deterministic length")
	for _, size := range []sm2.PointSize{sm2.CompactPointSize, sm2.TypicalPointSize, sm2.MaxPointSize} {
		ct, err := sm2.EncryptFixedLen(rand.Reader, priv.Public(), msg, size)
		if err != nil {
			t.Fatalf("EncryptFixedLen(size=%d): %v", size, err)
		}
		// The total DER length is deterministic given size and len(msg):
		// point_size + octet_string(32) + 32 + octet_string(len(msg)) +
		// len(msg) + sequence_header.
		hashOverhead := 1 + 1 + 32
		bodyLenLen := 1
		if len(msg) >= 128 {
			bodyLenLen = 2
		}
		bodyOverhead := 1 + bodyLenLen + len(msg)
		content := int(size) + hashOverhead + bodyOverhead
		seqHeader := 1 + 1
		if content >= 128 {
			seqHeader = 3
		}
		want := seqHeader + content
		if len(ct) != want {
			t.Fatalf("size=%d: DER length = %d, want %d", size, len(ct), want)
		}
	}
}
