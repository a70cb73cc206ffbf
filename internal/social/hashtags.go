package social

import (
	"regexp"
	"sort"
	"strings"
)

// hashtagCaps holds the effective maximum hashtag count per platform,
// following each platform's published best practice.
var hashtagCaps = map[Platform]int{
	Twitter:   3,
	LinkedIn:  5,
	Instagram: 30,
	Facebook:  10,
}

// DefaultMaxHashtags applies when the caller does not cap the count.
const DefaultMaxHashtags = 10

// wordPattern matches candidate hashtag words: four letters or more.
var wordPattern = regexp.MustCompile(`\b\w{4,}\b`)

// genericTags are hashtags too broad to add reach; they score lower.
var genericTags = map[string]bool{
	"love":          true,
	"instagood":     true,
	"photooftheday": true,
	"beautiful":     true,
	"happy":         true,
}

// GenerateHashtags derives hashtags from post content. Tags already present
// in the content come first, then the most frequent words of four or more
// characters. The result is deduplicated in order and capped at the lower
// of max and the platform's best-practice cap.
func GenerateHashtags(content string, p Platform, max int) []string {
	if max <= 0 {
		max = DefaultMaxHashtags
	}
	if limit, ok := hashtagCaps[p]; ok && max > limit {
		max = limit
	}

	var tags []string
	for _, tag := range hashtagPattern.FindAllString(content, -1) {
		tags = append(tags, strings.TrimPrefix(tag, "#"))
	}

	// Frequency-rank the remaining words. Ties break on first appearance
	// so results are deterministic.
	lower := strings.ToLower(hashtagPattern.ReplaceAllString(content, ""))
	words := wordPattern.FindAllString(lower, -1)
	freq := make(map[string]int, len(words))
	order := make(map[string]int, len(words))
	var unique []string
	for i, w := range words {
		if freq[w] == 0 {
			order[w] = i
			unique = append(unique, w)
		}
		freq[w]++
	}
	sort.SliceStable(unique, func(i, j int) bool {
		if freq[unique[i]] != freq[unique[j]] {
			return freq[unique[i]] > freq[unique[j]]
		}
		return order[unique[i]] < order[unique[j]]
	})

	const topWords = 5
	for i, w := range unique {
		if i >= topWords {
			break
		}
		tags = append(tags, w)
	}

	// Deduplicate preserving order, then cap.
	seen := make(map[string]bool, len(tags))
	out := tags[:0]
	for _, tag := range tags {
		key := strings.ToLower(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tag)
	}
	if len(out) > max {
		out = out[:max]
	}
	return out
}

// ScoreHashtags rates hashtags for a platform and returns them sorted by
// relevance, highest first. Scoring favors mid-length, non-generic tags.
func ScoreHashtags(hashtags []string, p Platform) []HashtagScore {
	scores := make([]HashtagScore, 0, len(hashtags))

	for _, tag := range hashtags {
		tag = strings.TrimPrefix(tag, "#")
		score := 0.5

		if n := len(tag); n >= 5 && n <= 15 {
			score += 0.2
		}
		if !genericTags[strings.ToLower(tag)] {
			score += 0.2
		}
		switch {
		case p == Instagram && len(tag) < 20:
			score += 0.1
		case p == Twitter && len(tag) < 15:
			score += 0.1
		}
		if score > 1.0 {
			score = 1.0
		}

		scores = append(scores, HashtagScore{
			Hashtag:     tag,
			Relevance:   score,
			Competition: "medium",
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Relevance > scores[j].Relevance
	})
	return scores
}
