// Package media optimizes images and videos to fit platform upload limits.
package media

import (
	"fmt"
	"path/filepath"
	"strings"

	"socialmcp/internal/social"
)

// Spec captures one platform's media upload limits.
type Spec struct {
	MaxImageMB   float64
	MaxVideoMB   float64
	ImageFormats []string
	VideoFormats []string
	MaxWidth     int
	MaxHeight    int
	MaxVideoSecs int
}

// platformSpecs holds the published upload limits per platform.
var platformSpecs = map[social.Platform]Spec{
	social.Twitter: {
		MaxImageMB:   5,
		MaxVideoMB:   512,
		ImageFormats: []string{"jpg", "jpeg", "png", "gif", "webp"},
		VideoFormats: []string{"mp4", "mov"},
		MaxWidth:     1920,
		MaxHeight:    1200,
		MaxVideoSecs: 140,
	},
	social.Instagram: {
		MaxImageMB:   8,
		MaxVideoMB:   100,
		ImageFormats: []string{"jpg", "jpeg", "png"},
		VideoFormats: []string{"mp4", "mov"},
		MaxWidth:     1080,
		MaxHeight:    1350,
		MaxVideoSecs: 60,
	},
	social.LinkedIn: {
		MaxImageMB:   10,
		MaxVideoMB:   200,
		ImageFormats: []string{"jpg", "jpeg", "png", "gif"},
		VideoFormats: []string{"mp4"},
		MaxWidth:     1920,
		MaxHeight:    1080,
		MaxVideoSecs: 600,
	},
	social.Facebook: {
		MaxImageMB:   10,
		MaxVideoMB:   1024,
		ImageFormats: []string{"jpg", "jpeg", "png", "gif"},
		VideoFormats: []string{"mp4", "mov"},
		MaxWidth:     1920,
		MaxHeight:    1080,
		MaxVideoSecs: 240,
	},
}

// defaultSpec is used when no platforms are named.
var defaultSpec = Spec{
	MaxImageMB:   5,
	MaxVideoMB:   100,
	ImageFormats: []string{"jpg", "jpeg", "png"},
	VideoFormats: []string{"mp4"},
	MaxWidth:     1920,
	MaxHeight:    1080,
	MaxVideoSecs: 140,
}

// SpecFor returns the upload limits for a platform, or the default spec for
// unknown platforms.
func SpecFor(p social.Platform) Spec {
	if spec, ok := platformSpecs[p]; ok {
		return spec
	}
	return defaultSpec
}

// MergeSpecs combines specs for several target platforms into the strictest
// set of limits, so one optimized file satisfies every platform.
func MergeSpecs(platforms []social.Platform) Spec {
	if len(platforms) == 0 {
		return defaultSpec
	}

	merged := SpecFor(platforms[0])
	for _, p := range platforms[1:] {
		spec := SpecFor(p)
		if spec.MaxImageMB < merged.MaxImageMB {
			merged.MaxImageMB = spec.MaxImageMB
		}
		if spec.MaxVideoMB < merged.MaxVideoMB {
			merged.MaxVideoMB = spec.MaxVideoMB
		}
		if spec.MaxWidth < merged.MaxWidth {
			merged.MaxWidth = spec.MaxWidth
		}
		if spec.MaxHeight < merged.MaxHeight {
			merged.MaxHeight = spec.MaxHeight
		}
		if spec.MaxVideoSecs < merged.MaxVideoSecs {
			merged.MaxVideoSecs = spec.MaxVideoSecs
		}
		merged.ImageFormats = intersect(merged.ImageFormats, spec.ImageFormats)
		merged.VideoFormats = intersect(merged.VideoFormats, spec.VideoFormats)
	}
	return merged
}

func intersect(a, b []string) []string {
	allowed := make(map[string]bool, len(b))
	for _, f := range b {
		allowed[f] = true
	}
	var out []string
	for _, f := range a {
		if allowed[f] {
			out = append(out, f)
		}
	}
	return out
}

// DetectType classifies a file as image or video from its extension.
func DetectType(path string) (social.MediaType, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "jpg", "jpeg", "png", "gif", "webp", "bmp", "tif", "tiff":
		return social.MediaImage, nil
	case "mp4", "mov", "avi", "mkv", "webm", "m4v":
		return social.MediaVideo, nil
	default:
		return "", fmt.Errorf("unrecognized media extension %q", ext)
	}
}
