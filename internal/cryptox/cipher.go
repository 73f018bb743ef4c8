// Package cryptox implements the credential cipher used for stored passwords
// and bcrypt hashing for account secrets.
//
// Ciphertexts use the OpenSSL "Salted__" envelope produced by
// `openssl enc -aes-256-cbc -md md5` and by CryptoJS.AES with a passphrase,
// so values written by older clients decrypt unchanged.
package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"encoding/base64"
	"errors"
	"unicode/utf8"

	"github.com/krsnavtr-code/Pass-Manager/internal/common"
)

const (
	saltLen = 8
	keyLen  = 32
	ivLen   = aes.BlockSize
)

var saltedPrefix = []byte("Salted__")

// ErrEmptySecret is returned when the master password is empty.
var ErrEmptySecret = errors.New("empty secret")

// randomSalt is a seam for tests.
var randomSalt = func() []byte {
	return common.GenerateRandByteArray(saltLen)
}

// EncryptPassword encrypts plaintext with a key derived from secret and a
// fresh random salt. Encrypting the same input twice yields different output.
func EncryptPassword(plaintext, secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	return encryptWithSalt(plaintext, secret, randomSalt())
}

func encryptWithSalt(plaintext, secret string, salt []byte) (string, error) {
	key, iv := deriveKeyIV([]byte(secret), salt)
	defer common.WipeByteArray(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ct := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ct, padded)

	out := make([]byte, 0, len(saltedPrefix)+saltLen+len(ct))
	out = append(out, saltedPrefix...)
	out = append(out, salt...)
	out = append(out, ct...)

	return base64.StdEncoding.EncodeToString(out), nil
}

// DecryptPassword reverses EncryptPassword. Any malformed input or wrong
// secret yields common.ErrDecryption.
func DecryptPassword(ciphertext, secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", common.ErrDecryption
	}
	if len(raw) < len(saltedPrefix)+saltLen+aes.BlockSize || !bytes.HasPrefix(raw, saltedPrefix) {
		return "", common.ErrDecryption
	}

	salt := raw[len(saltedPrefix) : len(saltedPrefix)+saltLen]
	ct := raw[len(saltedPrefix)+saltLen:]
	if len(ct)%aes.BlockSize != 0 {
		return "", common.ErrDecryption
	}

	key, iv := deriveKeyIV([]byte(secret), salt)
	defer common.WipeByteArray(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", common.ErrDecryption
	}

	pt := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(pt, ct)

	pt, err = pkcs7Unpad(pt, aes.BlockSize)
	if err != nil || !utf8.Valid(pt) {
		return "", common.ErrDecryption
	}

	return string(pt), nil
}

// deriveKeyIV is OpenSSL's EVP_BytesToKey with MD5 and a single iteration.
func deriveKeyIV(secret, salt []byte) (key, iv []byte) {
	var (
		derived []byte
		prev    []byte
	)
	for len(derived) < keyLen+ivLen {
		h := md5.New()
		h.Write(prev)
		h.Write(secret)
		h.Write(salt)
		prev = h.Sum(nil)
		derived = append(derived, prev...)
	}
	return derived[:keyLen], derived[keyLen : keyLen+ivLen]
}

func pkcs7Pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	return append(append(make([]byte, 0, len(b)+n), b...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, blockSize int) ([]byte, error) {
	if len(b) == 0 || len(b)%blockSize != 0 {
		return nil, common.ErrDecryption
	}
	n := int(b[len(b)-1])
	if n == 0 || n > blockSize || n > len(b) {
		return nil, common.ErrDecryption
	}
	for _, v := range b[len(b)-n:] {
		if int(v) != n {
			return nil, common.ErrDecryption
		}
	}
	return b[:len(b)-n], nil
}
