package utils

import (
	"crypto/rand"
	"math/big"
)

const passwordBytes = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateRandomPassword produces a temporary password for accounts
// provisioned during guest checkout; it reaches the user only through
// the welcome email. Indices come from crypto/rand: this is a
// credential, not a display code.
func GenerateRandomPassword(length int) string {
	charsetSize := big.NewInt(int64(len(passwordBytes)))

	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, charsetSize)
		if err != nil {
			panic(err)
		}
		b[i] = passwordBytes[n.Int64()]
	}
	return string(b)
}
