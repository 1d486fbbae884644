package config

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
)

const otpDigits = 6

// GenerateOTP returns a random six digit code in the range 100000-999999.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()+100000), nil
}

// HashOTP returns the hex SHA-256 of a one-time code. Only the hash is stored.
func HashOTP(otp string) string {
	sum := sha256.Sum256([]byte(otp))
	return hex.EncodeToString(sum[:])
}

func CompareOTP(otp, storedHash string) bool {
	return subtle.ConstantTimeCompare([]byte(HashOTP(otp)), []byte(storedHash)) == 1
}
