// Package password hashes and verifies staff account passwords with bcrypt.
package password

import "golang.org/x/crypto/bcrypt"

// cost 12 keeps a hash around 250ms on current hardware, slow enough to
// blunt offline guessing without hurting interactive login.
const cost = 12

// Hash derives a bcrypt hash from a plaintext password.
func Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare checks a plaintext password against a stored hash.
func Compare(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
