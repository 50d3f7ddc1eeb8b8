package utils

import (
	"crypto/rand"
	"math/big"
)

const resetCodeCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// ResetCodeLength is the length of a password reset code.
const ResetCodeLength = 32

// GenerateResetCode returns a random alphanumeric string used as one-time password reset code.
func GenerateResetCode() (string, error) {
	b := make([]byte, ResetCodeLength)
	max := big.NewInt(int64(len(resetCodeCharset)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = resetCodeCharset[n.Int64()]
	}
	return string(b), nil
}
