package domain

// Secrets are credentials injected by the CI environment. They are never persisted.
type Secrets struct {
	GitHubToken   string
	GPGPrivateKey string
	GPGPassphrase string
}

// Values lists the non-empty secret values, for masking.
func (s Secrets) Values() []string {
	var out []string
	for _, v := range []string{s.GitHubToken, s.GPGPrivateKey, s.GPGPassphrase} {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
