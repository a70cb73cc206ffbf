// Package cli implements the socialmcp command-line commands. Each command
// is a function taking args and output writers and returning an exit code,
// with an Options struct carrying test mocks.
package cli

import (
	"io"
	"os"
	"time"

	"socialmcp/internal/calendar"
	"socialmcp/internal/config"
	"socialmcp/internal/platform"
)

// resolveStateRoot returns the override or discovers the state root.
func resolveStateRoot(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	return calendar.FindStateRoot()
}

// resolveRegistry returns the override or builds a registry from env and
// config file credentials.
func resolveRegistry(override *platform.Registry, stateRoot string) *platform.Registry {
	if override != nil {
		return override
	}
	cfg, err := config.Load(stateRoot)
	if err != nil {
		return platform.FromEnv(os.Getenv)
	}
	return platform.FromEnv(cfg.Lookup())
}

// readContent returns post content from piped stdin, falling back to the
// first positional argument. Trailing newline is trimmed; internal newlines
// are preserved.
func readContent(args []string, stdin io.Reader, stdinIsPipe bool) (string, error) {
	if stdinIsPipe && stdin != nil {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", err
		}
		if len(data) > 0 {
			content := string(data)
			if content[len(content)-1] == '\n' {
				content = content[:len(content)-1]
			}
			return content, nil
		}
	}
	if len(args) > 0 {
		return args[0], nil
	}
	return "", nil
}

// nowOr returns the mock clock or time.Now.
func nowOr(mock func() time.Time) time.Time {
	if mock != nil {
		return mock()
	}
	return time.Now().UTC()
}
