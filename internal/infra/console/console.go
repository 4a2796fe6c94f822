// Package console renders human-facing output on a terminal or CI log.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/Lessica/lessica.github.io/internal/ports"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const barWidth = 32

type Console struct {
	mu    sync.Mutex
	out   io.Writer
	theme Theme
	bar   progress.Model
}

func New(w io.Writer) *Console {
	return &Console{
		out:   w,
		theme: NewTheme(lipgloss.NewRenderer(w)),
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth)),
	}
}

var _ ports.Notifier = (*Console)(nil)

func (c *Console) Info(msg string) {
	c.println(c.theme.Title.Render("==> " + msg))
}

func (c *Console) Detail(msg string) {
	c.println(c.theme.Detail.Render("    " + msg))
}

func (c *Console) Success(msg string) {
	c.println(c.theme.Success.Render("ok  " + msg))
}

func (c *Console) Warn(msg string) {
	c.println(c.theme.Warn.Render("!   " + msg))
}

// Error prints a short explanation of err; details stay in the log file.
func (c *Console) Error(err error) {
	if err == nil {
		return
	}
	c.println(c.theme.Error.Render("x   " + UserMessage(err)))
}

// Progress redraws a single line each time the rendered state changes and
// terminates it once the transfer completes.
func (c *Console) Progress(label string) ports.ProgressFunc {
	last := ""
	finished := false

	return func(done, total int64) {
		c.mu.Lock()
		defer c.mu.Unlock()

		if finished {
			return
		}

		var line string
		if total > 0 {
			pct := float64(done) / float64(total)
			if pct > 1 {
				pct = 1
			}
			line = fmt.Sprintf("    %s %s %s / %s", label, c.bar.ViewAs(pct), humanize.Bytes(uint64(done)), humanize.Bytes(uint64(total)))
		} else {
			line = fmt.Sprintf("    %s %s", label, humanize.Bytes(uint64(done)))
		}
		if line == last {
			return
		}
		last = line

		_, _ = io.WriteString(c.out, "\r"+line)
		if total > 0 && done >= total {
			finished = true
			_, _ = io.WriteString(c.out, "\n")
		}
	}
}

func (c *Console) println(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = io.WriteString(c.out, strings.TrimRight(s, "\n")+"\n")
}

// Nop drops every message.
type Nop struct{}

var _ ports.Notifier = Nop{}

func (Nop) Info(string)    {}
func (Nop) Detail(string)  {}
func (Nop) Success(string) {}
func (Nop) Warn(string)    {}

func (Nop) Progress(string) ports.ProgressFunc {
	return func(int64, int64) {}
}
