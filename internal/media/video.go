package media

import (
	"context"
	"fmt"
	"os"

	"socialmcp/internal/social"
)

// maxVideoWidth is the widest output ffmpeg produces; taller-than-wide
// sources keep their aspect ratio.
const maxVideoWidth = 1280

// OptimizeVideo transcodes a video to H.264/AAC within the merged limits of
// the target platforms. The output is written next to the input as
// <stem>_optimized.mp4. Requires ffmpeg and ffprobe on PATH.
func OptimizeVideo(ctx context.Context, path string, platforms []social.Platform) (Result, error) {
	spec := MergeSpecs(platforms)

	info, err := ProbeVideo(ctx, path)
	if err != nil {
		return Result{}, err
	}

	outPath := optimizedPath(path, ".mp4")
	if err := runFFmpeg(ctx, transcodeArgs(path, outPath, info, spec)); err != nil {
		return Result{}, err
	}

	outStat, err := os.Stat(outPath)
	if err != nil {
		return Result{}, fmt.Errorf("stat %s: %w", outPath, err)
	}

	outInfo, err := ProbeVideo(ctx, outPath)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		InputPath:      path,
		OutputPath:     outPath,
		MediaType:      social.MediaVideo,
		OriginalBytes:  info.Bytes,
		OptimizedBytes: outStat.Size(),
		Width:          outInfo.Width,
		Height:         outInfo.Height,
	}
	if info.Bytes > 0 {
		result.CompressionRatio = float64(result.OptimizedBytes) / float64(result.OriginalBytes)
	}
	return result, nil
}

// Optimize dispatches to the image or video path based on file extension.
func Optimize(ctx context.Context, path string, platforms []social.Platform) (Result, error) {
	mediaType, err := DetectType(path)
	if err != nil {
		return Result{}, err
	}
	switch mediaType {
	case social.MediaVideo:
		return OptimizeVideo(ctx, path, platforms)
	default:
		return OptimizeImage(path, platforms)
	}
}
