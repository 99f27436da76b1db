package users

import (
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the bcrypt input limit. Longer passwords are cut to
// this many bytes before hashing and comparing.
const MaxPasswordBytes = 72

// passwordBytes returns the bytes of password that bcrypt actually reads.
func passwordBytes(password string) []byte {
	b := []byte(password)
	if len(b) > MaxPasswordBytes {
		b = b[:MaxPasswordBytes]
	}
	return b
}

// GeneratePasswordHash hashes password at the given bcrypt cost.
func GeneratePasswordHash(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(passwordBytes(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), passwordBytes(password))
}
