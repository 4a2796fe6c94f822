package domain

// Runtime is a provisioned Python environment.
type Runtime struct {
	Version string
	Python  string
	Venv    string
}
