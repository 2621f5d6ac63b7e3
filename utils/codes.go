package utils

import (
	"crypto/rand"
	"errors"
	"math/big"
	"os"
	"strings"
)

// EnvOrDefault returns ENV value or fallback default.
func EnvOrDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// Ambiguous characters (0/O, 1/I) are excluded so codes survive being read
// over the phone at the front desk.
const codeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateCode produces an n-character A-Z2-9 code using crypto/rand with
// rand.Int to avoid modulo bias.
func GenerateCode(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("invalid length")
	}
	var sb strings.Builder
	alphaLen := big.NewInt(int64(len(codeCharset)))
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, alphaLen)
		if err != nil {
			return "", err
		}
		sb.WriteByte(codeCharset[num.Int64()])
	}
	return sb.String(), nil
}

// GenerateBookingID returns a public booking identifier, e.g. "BK-7F3K29QD".
func GenerateBookingID() (string, error) {
	code, err := GenerateCode(8)
	if err != nil {
		return "", err
	}
	return "BK-" + code, nil
}

// GenerateInvoiceNumber returns a public invoice identifier, e.g. "INV-9Q2M51XT".
func GenerateInvoiceNumber() (string, error) {
	code, err := GenerateCode(8)
	if err != nil {
		return "", err
	}
	return "INV-" + code, nil
}
