package security

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var (
	dummyHash     []byte
	dummyHashOnce sync.Once
)

// HashPassword : Hash Password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CheckUnknownPassword runs a full bcrypt comparison against a throwaway hash
// and always reports false. Logins for accounts that do not exist take as
// long as logins with a wrong password.
func CheckUnknownPassword(password string) bool {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("unknown-account"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
	return false
}
