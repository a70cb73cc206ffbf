package cli

import (
	"fmt"
	"io"

	"socialmcp/internal/platform"
	"socialmcp/internal/social"
)

// PlatformsOptions configures the Platforms command behavior.
type PlatformsOptions struct {
	Registry  *platform.Registry // Mock registry (for testing)
	StateRoot string             // State root override (for testing)
}

// Platforms implements the socialmcp platforms command.
// Lists every supported platform and whether credentials are configured.
//
// Exit codes:
// - 0: Success
// - 1: Error
func Platforms(stdout, stderr io.Writer, opts PlatformsOptions) int {
	stateRoot, err := resolveStateRoot(opts.StateRoot)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	registry := resolveRegistry(opts.Registry, stateRoot)

	for _, p := range social.AllPlatforms {
		state := "not configured"
		if _, ok := registry.Client(p); ok {
			state = "configured"
		}
		fmt.Fprintf(stdout, "%-10s %s (limit %d chars)\n", p, state, social.CharLimit(p))
	}
	return 0
}
