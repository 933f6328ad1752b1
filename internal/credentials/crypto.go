package credentials

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	rerrors "github.com/aroha-labs/rata/internal/errors"

	"golang.org/x/crypto/nacl/secretbox"
)

// The envelope is a version byte, the 24-byte nonce, and the secretbox
// ciphertext (which carries the authentication tag). The whole thing is
// stored as standard base64 text so the encrypted file diffs as a single
// opaque line in version control.
const (
	envelopeVersion = 0x01
	nonceSize       = 24
)

// Encrypt seals plaintext into a fresh envelope. A new random nonce is
// minted on every call.
func Encrypt(plaintext []byte, key MasterKey) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", rerrors.ErrEncryptFailed, err)
	}

	raw := make([]byte, 0, 1+nonceSize+len(plaintext)+secretbox.Overhead)
	raw = append(raw, envelopeVersion)
	raw = append(raw, nonce[:]...)
	raw = secretbox.Seal(raw, plaintext, &nonce, &key.cipherKey)

	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(raw)))
	base64.StdEncoding.Encode(encoded, raw)
	return encoded, nil
}

// Decrypt opens an envelope and returns the plaintext.
//
// Every failure mode short of success (bad encoding, truncation, an
// unknown version byte, a wrong key or flipped bit) reports
// ErrAuthenticationFailed. Partially valid plaintext is never returned.
func Decrypt(envelope []byte, key MasterKey) ([]byte, error) {
	trimmed := bytes.TrimSpace(envelope)

	raw, err := base64.StdEncoding.DecodeString(string(trimmed))
	if err != nil {
		return nil, fmt.Errorf("%w: envelope is not valid base64", rerrors.ErrAuthenticationFailed)
	}

	if len(raw) < 1+nonceSize+secretbox.Overhead {
		return nil, fmt.Errorf("%w: envelope is truncated", rerrors.ErrAuthenticationFailed)
	}
	if raw[0] != envelopeVersion {
		return nil, fmt.Errorf("%w: unknown envelope version %d", rerrors.ErrAuthenticationFailed, raw[0])
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[1:1+nonceSize])

	plaintext, ok := secretbox.Open(nil, raw[1+nonceSize:], &nonce, &key.cipherKey)
	if !ok {
		return nil, fmt.Errorf("%w: wrong master key or tampered ciphertext", rerrors.ErrAuthenticationFailed)
	}

	return plaintext, nil
}
