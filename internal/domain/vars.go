package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Vars is a key/value store used to expand {{var}} placeholders in stage commands.
type Vars map[string]string

// VarResolver resolves {{var}} placeholders in external stage commands.
// It supports the built-in {{$timestamp}}.
type VarResolver struct {
	now func() time.Time
}

// VarResolverOption configures VarResolver.
type VarResolverOption func(*VarResolver)

// WithNow overrides the clock (useful for tests).
func WithNow(now func() time.Time) VarResolverOption {
	return func(r *VarResolver) { r.now = now }
}

func NewVarResolver(opts ...VarResolverOption) *VarResolver {
	r := &VarResolver{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RuntimeResolver caches built-ins for one stage invocation so repeated
// {{$timestamp}} tokens agree.
type RuntimeResolver struct {
	base     Vars
	builtins Vars
}

func (r *VarResolver) NewRuntime(vars Vars) *RuntimeResolver {
	baseCopy := Vars{}
	for k, v := range vars {
		baseCopy[k] = v
	}
	return &RuntimeResolver{
		base: baseCopy,
		builtins: Vars{
			"$timestamp": strconv.FormatInt(r.now().Unix(), 10),
		},
	}
}

// ResolveArgs expands every argument of an argv and returns a copy.
func (rr *RuntimeResolver) ResolveArgs(args []string) ([]string, error) {
	out := make([]string, 0, len(args))
	for i, a := range args {
		v, err := rr.ResolveString(a)
		if err != nil {
			return nil, &OpError{
				Op:   "vars.resolve",
				Kind: KindInvalidConfig,
				Err:  fmt.Errorf("args[%d]: %w", i, err),
			}
		}
		out = append(out, v)
	}
	return out, nil
}

// ResolveString expands placeholders in a single string.
func (rr *RuntimeResolver) ResolveString(s string) (string, error) {
	if !strings.Contains(s, "{{") {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s) + 16)

	for i := 0; i < len(s); {
		if i+1 < len(s) && s[i] == '{' && s[i+1] == '{' {
			start := i + 2
			end := strings.Index(s[start:], "}}")
			if end < 0 {
				return "", errors.New("unclosed placeholder")
			}
			end = start + end

			name := strings.TrimSpace(s[start:end])
			if name == "" {
				return "", errors.New("empty placeholder")
			}

			val, ok := rr.builtins[name]
			if !ok {
				val, ok = rr.base[name]
			}
			if !ok {
				return "", fmt.Errorf("missing variable: %s", name)
			}

			b.WriteString(val)
			i = end + 2
			continue
		}

		b.WriteByte(s[i])
		i++
	}

	return b.String(), nil
}
