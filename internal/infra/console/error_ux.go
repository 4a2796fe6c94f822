package console

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Lessica/lessica.github.io/internal/domain"
)

var reLine = regexp.MustCompile(`(?i)\bline\s+(\d+)\b`)

// UserMessage turns an error chain into a one-line hint for the console.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	prefix := ""
	var oe *domain.OpError
	if errors.As(err, &oe) && errors.Is(err, domain.ErrStepFailed) && strings.HasPrefix(oe.Op, "sync.") {
		prefix = "step " + strings.TrimPrefix(oe.Op, "sync.") + " failed: "
		var inner *domain.OpError
		if errors.As(oe.Err, &inner) {
			oe = inner
		} else {
			oe = nil
		}
	} else if !errors.As(err, &oe) {
		oe = nil
	}

	var ce *domain.CommandError
	if errors.As(err, &ce) {
		return prefix + ce.Error()
	}

	if oe != nil {
		return prefix + kindMessage(oe, err)
	}

	if looksLikeYAMLProblem(err.Error()) {
		line := extractLine(err.Error())
		if line != "" {
			return prefix + "Invalid YAML line " + line
		}
		return prefix + "Invalid YAML"
	}

	if prefix != "" {
		return strings.TrimSuffix(prefix, ": ")
	}
	return "Unexpected error (see logs)"
}

func kindMessage(oe *domain.OpError, err error) string {
	switch oe.Kind {
	case domain.KindNotFound:
		if strings.Contains(oe.Op, "workspacefinder.findroot") {
			return "Workspace not found (no index.yaml in this or any parent directory)"
		}
		if oe.Path != "" {
			return filepath.Base(oe.Path) + " not found"
		}
		return "Not found"

	case domain.KindInvalidConfig:
		base := "config"
		if strings.TrimSpace(oe.Path) != "" {
			base = filepath.Base(oe.Path)
		}

		line := extractLine(err.Error())
		if line != "" {
			return "Invalid YAML at " + base + " line " + line
		}
		if looksLikeYAMLProblem(err.Error()) {
			return "Invalid YAML at " + base
		}
		if oe.Err != nil {
			return "Invalid config: " + oe.Err.Error()
		}
		return "Invalid config"

	case domain.KindRemote:
		return "Remote request failed (see logs)"

	case domain.KindSigning:
		return "Signing key rejected (check GPG_PRIVATE_KEY and GPG_PASSPHRASE)"

	default:
		return "Unexpected error (see logs)"
	}
}

func looksLikeYAMLProblem(s string) bool {
	ls := strings.ToLower(s)
	return strings.Contains(ls, "yaml:") || strings.Contains(ls, "did not find expected") || strings.Contains(ls, "cannot unmarshal")
}

func extractLine(s string) string {
	m := reLine.FindStringSubmatch(s)
	if len(m) == 2 {
		return m[1]
	}
	return ""
}
