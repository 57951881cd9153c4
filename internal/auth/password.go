package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword runs the supplied password through bcrypt before storage
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword verifies a stored bcrypt hash against a supplied password.
// A mismatch is not an error, it is simply false.
func CheckPassword(storedHash, supplied string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(supplied)) == nil
}
