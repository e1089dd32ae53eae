package domain

import (
	"crypto/rand"
	"math/big"
)

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewBookingID returns "BK-" followed by eight uppercase alphanumerics.
func NewBookingID() string {
	return "BK-" + randomString(idAlphabet, 8)
}

// NewVerificationCode returns a six digit code shown at check-in.
func NewVerificationCode() string {
	return randomString("0123456789", 6)
}

func randomString(alphabet string, n int) string {
	limit := big.NewInt(int64(len(alphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			panic(err)
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out)
}
