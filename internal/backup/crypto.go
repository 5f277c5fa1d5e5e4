// Package backup seals and opens passphrase protected backup envelopes with
// PBKDF2-HMAC-SHA256 and AES-256-GCM.
package backup

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"time"

	"finance-dashboard/internal/domain"
	"golang.org/x/crypto/pbkdf2"
)

const (
	DefaultIterations = 250_000
	MinIterations     = 100_000
	MaxIterations     = 2_000_000
	SaltSize          = 16
	MinSaltSize       = 8
	NonceSize         = 12
	KeySize           = 32
)

var randReader io.Reader = rand.Reader

// Encrypt seals plaintext under a key derived from passphrase. Every call
// draws a fresh salt and nonce.
func Encrypt(plaintext []byte, passphrase string, exportedAt time.Time) (domain.EncryptedBackup, error) {
	if passphrase == "" {
		return domain.EncryptedBackup{}, domain.ErrPassphraseRequired
	}

	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(randReader, salt); err != nil {
		return domain.EncryptedBackup{}, domain.ErrEncryptFailed.WithCause(err)
	}
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(randReader, nonce); err != nil {
		return domain.EncryptedBackup{}, domain.ErrEncryptFailed.WithCause(err)
	}

	aead, err := newAEAD(passphrase, salt, DefaultIterations)
	if err != nil {
		return domain.EncryptedBackup{}, domain.ErrEncryptFailed.WithCause(err)
	}
	ciphertext := aead.Seal(nil, nonce, plaintext, nil)

	return domain.EncryptedBackup{
		App:               domain.EncryptedBackupApp,
		EncryptedBackup:   true,
		EncryptionVersion: domain.EncryptionVersion,
		ExportedAt:        domain.FormatTimestamp(exportedAt),
		Encryption: domain.EncryptionParams{
			Algorithm:  domain.EncryptionAlgorithmAESGCM,
			IV:         base64.StdEncoding.EncodeToString(nonce),
			KDF:        domain.KDFPBKDF2,
			Hash:       domain.KDFHashSHA256,
			Iterations: DefaultIterations,
			Salt:       base64.StdEncoding.EncodeToString(salt),
		},
		Payload: base64.StdEncoding.EncodeToString(ciphertext),
	}, nil
}

// Decrypt opens envelope with passphrase. Malformed parameters, a wrong
// passphrase and tampered ciphertext all return domain.ErrDecryptFailed.
func Decrypt(envelope domain.EncryptedBackup, passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, domain.ErrPassphraseRequired
	}

	params := envelope.Encryption
	if params.Algorithm != "" && params.Algorithm != domain.EncryptionAlgorithmAESGCM {
		return nil, domain.ErrDecryptFailed
	}

	salt, err := base64.StdEncoding.DecodeString(params.Salt)
	if err != nil || len(salt) < MinSaltSize {
		return nil, domain.ErrDecryptFailed
	}
	nonce, err := base64.StdEncoding.DecodeString(params.IV)
	if err != nil || len(nonce) != NonceSize {
		return nil, domain.ErrDecryptFailed
	}
	ciphertext, err := base64.StdEncoding.DecodeString(envelope.Payload)
	if err != nil || len(ciphertext) == 0 {
		return nil, domain.ErrDecryptFailed
	}

	aead, err := newAEAD(passphrase, salt, ClampIterations(params.Iterations))
	if err != nil {
		return nil, domain.ErrDecryptFailed
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, domain.ErrDecryptFailed
	}
	return plaintext, nil
}

// ClampIterations bounds an iteration count read from an untrusted envelope.
func ClampIterations(iterations int) int {
	if iterations < MinIterations {
		return MinIterations
	}
	if iterations > MaxIterations {
		return MaxIterations
	}
	return iterations
}

func newAEAD(passphrase string, salt []byte, iterations int) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(passphrase), salt, iterations, KeySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
