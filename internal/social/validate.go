package social

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrEmptyContent is returned when a post has no text.
var ErrEmptyContent = errors.New("post content is empty")

// charLimits holds the maximum post length per platform.
var charLimits = map[Platform]int{
	Twitter:   280,
	LinkedIn:  3000,
	Instagram: 2200,
	Facebook:  63206,
}

// DefaultCharLimit applies to unrecognized platforms.
const DefaultCharLimit = 5000

// CharLimit returns the maximum post length for a platform.
func CharLimit(p Platform) int {
	if limit, ok := charLimits[p]; ok {
		return limit
	}
	return DefaultCharLimit
}

// hashtagPattern matches a hashtag token inside post text.
var hashtagPattern = regexp.MustCompile(`#\w+`)

// ValidateContent checks post text against a platform's requirements.
// A non-empty warning means the content is acceptable but suboptimal.
func ValidateContent(text string, p Platform) (warning string, err error) {
	if text == "" {
		return "", ErrEmptyContent
	}

	limit := CharLimit(p)
	if len(text) > limit {
		return "", fmt.Errorf("content exceeds %s character limit (%d > %d)", p, len(text), limit)
	}

	// Hashtags are strongly correlated with reach on Instagram.
	if p == Instagram && !hashtagPattern.MatchString(text) {
		return "instagram posts typically perform better with hashtags", nil
	}

	return "", nil
}

// ComposeText builds the final outgoing text for a platform: hashtags are
// appended as "#tag" tokens, and mentions are placed per platform
// convention (leading on Twitter, trailing elsewhere).
func ComposeText(text string, hashtags, mentions []string, p Platform) string {
	out := text

	if len(hashtags) > 0 {
		tags := make([]string, 0, len(hashtags))
		for _, tag := range hashtags {
			tags = append(tags, "#"+strings.TrimPrefix(tag, "#"))
		}
		switch p {
		case Twitter:
			out = out + " " + strings.Join(tags, " ")
		default:
			out = out + "\n\n" + strings.Join(tags, " ")
		}
	}

	if len(mentions) > 0 {
		handles := make([]string, 0, len(mentions))
		for _, m := range mentions {
			handles = append(handles, "@"+strings.TrimPrefix(m, "@"))
		}
		switch p {
		case Twitter:
			out = strings.Join(handles, " ") + " " + out
		default:
			out = out + "\n\n" + strings.Join(handles, " ")
		}
	}

	return out
}
