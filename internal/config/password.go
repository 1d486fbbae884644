package config

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

const maxBcryptCost = 14

// PasswordConfig hashes account passwords with bcrypt. A non-empty Pepper is
// appended to every password before hashing, so it must never change once
// accounts exist.
type PasswordConfig struct {
	BcryptCost int
	Pepper     string
}

func NewPasswordConfig() (*PasswordConfig, error) {
	raw := getEnvString("BCRYPT_COST", strconv.Itoa(bcrypt.DefaultCost))
	cost, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("config error: BCRYPT_COST is not a number: %q", raw)
	}
	if cost < bcrypt.MinCost || cost > maxBcryptCost {
		return nil, fmt.Errorf("config error: BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, maxBcryptCost, cost)
	}
	return &PasswordConfig{BcryptCost: cost, Pepper: os.Getenv("PASSWORD_PEPPER")}, nil
}

func (c *PasswordConfig) HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(c.peppered(pw), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (c *PasswordConfig) VerifyPassword(pw, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), c.peppered(pw)) == nil
}

func (c *PasswordConfig) peppered(pw string) []byte {
	return []byte(pw + c.Pepper)
}
