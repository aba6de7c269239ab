package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrTampered is returned when a sealed payload fails its integrity check
var ErrTampered = errors.New("payload signature mismatch")

func checkKey(key []byte) error {
	if len(key) != 16 && len(key) != 24 && len(key) != 32 {
		return fmt.Errorf("encryption key must be 16, 24, or 32 bytes, got %d", len(key))
	}
	return nil
}

// Encrypt encrypts data with AES-CBC and PKCS#7 padding. The result is the
// hex-encoded IV followed by the ciphertext.
func Encrypt(data []byte, key []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("input data is empty")
	}
	if err := checkKey(key); err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("failed to generate IV: %w", err)
	}

	padding := aes.BlockSize - len(data)%aes.BlockSize
	padded := make([]byte, len(data), len(data)+padding)
	copy(padded, data)
	for i := 0; i < padding; i++ {
		padded = append(padded, byte(padding))
	}

	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(append(iv, ciphertext...)), nil
}

// Decrypt reverses Encrypt
func Decrypt(encrypted string, key []byte) ([]byte, error) {
	if len(encrypted) == 0 {
		return nil, fmt.Errorf("encrypted data is empty")
	}
	if err := checkKey(key); err != nil {
		return nil, err
	}

	data, err := hex.DecodeString(encrypted)
	if err != nil {
		return nil, fmt.Errorf("failed to decode hex: %w", err)
	}
	if len(data) < 2*aes.BlockSize {
		return nil, fmt.Errorf("encrypted data too short: %d bytes", len(data))
	}

	iv, ciphertext := data[:aes.BlockSize], data[aes.BlockSize:]
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("invalid ciphertext length: %d bytes", len(ciphertext))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	padding := int(plaintext[len(plaintext)-1])
	if padding > aes.BlockSize || padding == 0 {
		return nil, fmt.Errorf("invalid padding value: %d", padding)
	}
	for i := len(plaintext) - padding; i < len(plaintext); i++ {
		if int(plaintext[i]) != padding {
			return nil, fmt.Errorf("invalid padding bytes: expected %d, got %d at position %d", padding, plaintext[i], i)
		}
	}
	return plaintext[:len(plaintext)-padding], nil
}

// GenerateHMAC returns the hex-encoded HMAC-SHA256 of the given parts
func GenerateHMAC(secret string, parts ...string) string {
	h := hmac.New(sha256.New, []byte(secret))
	for _, p := range parts {
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Sealer encrypts documents at rest and signs the ciphertext
type Sealer struct {
	key    []byte
	secret string
}

// NewSealer creates a sealer from an AES key and an HMAC secret
func NewSealer(key []byte, secret string) (*Sealer, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	return &Sealer{key: key, secret: secret}, nil
}

// Seal encrypts payload and returns the ciphertext with its signature
func (s *Sealer) Seal(payload []byte) (ciphertext, signature string, err error) {
	ciphertext, err = Encrypt(payload, s.key)
	if err != nil {
		return "", "", err
	}
	return ciphertext, GenerateHMAC(s.secret, ciphertext), nil
}

// Open verifies the signature and decrypts the ciphertext
func (s *Sealer) Open(ciphertext, signature string) ([]byte, error) {
	expected := GenerateHMAC(s.secret, ciphertext)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, ErrTampered
	}
	return Decrypt(ciphertext, s.key)
}
