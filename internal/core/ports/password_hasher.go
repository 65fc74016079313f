package ports

// PasswordHasher abstracts the one-way salted hash used for credentials.
type PasswordHasher interface {
	// Hash derives a salted digest from the plaintext. Repeated calls with
	// the same plaintext yield distinct digests.
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext produced digest. A malformed digest
	// fails closed: the result is false, never an error.
	Verify(plaintext, digest string) bool
}
