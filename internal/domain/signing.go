package domain

// SigningKey describes the OpenPGP key used to sign the sync commit.
// Armored and Passphrase never leave the process.
type SigningKey struct {
	KeyID       string
	Fingerprint string
	UserID      string
	Armored     string `json:"-"`
	Passphrase  string `json:"-"`
}
