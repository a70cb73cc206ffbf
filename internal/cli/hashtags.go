package cli

import (
	"fmt"
	"io"

	"socialmcp/internal/social"
)

// HashtagsOptions configures the Hashtags command behavior.
type HashtagsOptions struct {
	Platform    string // Platform whose conventions apply (--platform)
	Max         int    // Maximum suggestions (--max)
	StdinIsPipe bool   // Mock stdin pipe detection (for testing)
}

// Hashtags implements the socialmcp hashtags command.
// Content comes from stdin when piped, otherwise from the first argument.
//
// Exit codes:
// - 0: Success
// - 1: Error
func Hashtags(args []string, stdin io.Reader, stdout, stderr io.Writer, opts HashtagsOptions) int {
	isPipe := opts.StdinIsPipe
	if !isPipe {
		isPipe = IsStdinPipe()
	}

	content, err := readContent(args, stdin, isPipe)
	if err != nil {
		fmt.Fprintf(stderr, "error: failed to read stdin: %v\n", err)
		return 1
	}
	if content == "" {
		fmt.Fprintln(stderr, "error: no content provided")
		return 1
	}

	p := social.Platform(opts.Platform)
	if !social.Known(p) {
		fmt.Fprintf(stderr, "error: unknown platform: %s\n", opts.Platform)
		return 1
	}

	hashtags := social.GenerateHashtags(content, p, opts.Max)
	if len(hashtags) == 0 {
		fmt.Fprintln(stdout, "No hashtag suggestions")
		return 0
	}

	for _, score := range social.ScoreHashtags(hashtags, p) {
		fmt.Fprintf(stdout, "#%-20s relevance %.2f  competition %s\n",
			score.Hashtag, score.Relevance, score.Competition)
	}
	return 0
}
