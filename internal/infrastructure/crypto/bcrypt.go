package crypto

import "golang.org/x/crypto/bcrypt"

// hashCost is the fixed bcrypt work factor. Raising it slows every sign-in
// and signup; it is a deploy-wide decision, not a per-call knob.
const hashCost = 10

// BcryptHasher implements ports.PasswordHasher with bcrypt. bcrypt embeds a
// random salt in each digest, so hashing the same plaintext twice yields
// distinct digests that both verify.
type BcryptHasher struct{}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), hashCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext produced digest. Malformed digests fail
// closed: any bcrypt error reads as a mismatch.
func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
