package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"regexp"
)

const (
	codeDigits        = 6
	codeExpiryMinutes = 15
)

var codeRegexp = regexp.MustCompile(`^\d{6}$`)

// generateCode returns a uniformly random numeric code of the given length.
func generateCode(digits int) (string, error) {
	b := make([]byte, digits)
	ten := big.NewInt(10)
	for i := range b {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b[i] = byte('0' + n.Int64())
	}
	return string(b), nil
}

// hashCode is the form in which codes are stored.
func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
