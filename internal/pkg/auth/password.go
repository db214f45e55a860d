package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// CheckPassword compares a password with its bcrypt hash
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
