package domain

import "time"

// Command describes an external process invocation.
type Command struct {
	Name  string
	Args  []string
	Dir   string
	Env   map[string]string
	Stdin string

	// Stream mirrors the process output to the console while capturing it.
	Stream bool
}

// CommandResult is the captured outcome of a Command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}
