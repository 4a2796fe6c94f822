package ports

// Notifier receives human-facing progress messages.
type Notifier interface {
	Info(msg string)
	Detail(msg string)
	Success(msg string)
	Warn(msg string)

	// Progress returns a callback rendering transfer progress for label.
	Progress(label string) ProgressFunc
}

// ProgressFunc reports transferred bytes against an expected total (0 when unknown).
// A transfer of unknown size ends with a call where total equals done.
type ProgressFunc func(done, total int64)
