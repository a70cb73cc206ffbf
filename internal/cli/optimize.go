package cli

import (
	"context"
	"fmt"
	"io"

	"socialmcp/internal/media"
	"socialmcp/internal/social"
)

// OptimizeOptions configures the Optimize command behavior.
type OptimizeOptions struct {
	Platforms []string // Platforms whose limits apply (--platforms)
}

// Optimize implements the socialmcp optimize command.
// Takes a media file path and writes an optimized copy next to it.
//
// Exit codes:
// - 0: Success
// - 1: Error
func Optimize(args []string, stdout, stderr io.Writer, opts OptimizeOptions) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "error: missing media file path")
		fmt.Fprintln(stderr, "usage: socialmcp optimize [--platforms <names>] <path>")
		return 1
	}

	var platforms []social.Platform
	for _, name := range opts.Platforms {
		p := social.Platform(name)
		if !social.Known(p) {
			fmt.Fprintf(stderr, "error: unknown platform: %s\n", name)
			return 1
		}
		platforms = append(platforms, p)
	}

	result, err := media.Optimize(context.Background(), args[0], platforms)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "Optimized %s -> %s\n", result.InputPath, result.OutputPath)
	fmt.Fprintf(stdout, "  size: %d -> %d bytes (%.0f%%)\n",
		result.OriginalBytes, result.OptimizedBytes, result.CompressionRatio*100)
	fmt.Fprintf(stdout, "  dimensions: %dx%d\n", result.Width, result.Height)
	return 0
}
