package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrFFmpegNotFound is returned when the ffmpeg or ffprobe binary is not on
// PATH.
var ErrFFmpegNotFound = errors.New("ffmpeg not installed or not on PATH")

// VideoInfo holds the probe results needed for transcode decisions.
type VideoInfo struct {
	Width    int
	Height   int
	Duration float64
	Bytes    int64
}

// ffmpegAvailable reports whether both ffmpeg and ffprobe can be found.
func ffmpegAvailable() bool {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return false
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return false
	}
	return true
}

// ProbeVideo reads a video's dimensions, duration and size via ffprobe.
func ProbeVideo(ctx context.Context, path string) (VideoInfo, error) {
	if !ffmpegAvailable() {
		return VideoInfo{}, ErrFFmpegNotFound
	}

	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-show_entries", "format=duration,size",
		"-of", "json",
		path) // #nosec G204 - fixed ffprobe args, path comes from the caller
	output, err := cmd.Output()
	if err != nil {
		return VideoInfo{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return parseProbeOutput(output)
}

// parseProbeOutput decodes ffprobe's JSON into a VideoInfo.
func parseProbeOutput(output []byte) (VideoInfo, error) {
	var probe struct {
		Streams []struct {
			Width  int `json:"width"`
			Height int `json:"height"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
			Size     string `json:"size"`
		} `json:"format"`
	}
	if err := json.Unmarshal(output, &probe); err != nil {
		return VideoInfo{}, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(probe.Streams) == 0 {
		return VideoInfo{}, errors.New("no video stream found")
	}

	info := VideoInfo{
		Width:  probe.Streams[0].Width,
		Height: probe.Streams[0].Height,
	}
	if probe.Format.Duration != "" {
		info.Duration, _ = strconv.ParseFloat(probe.Format.Duration, 64)
	}
	if probe.Format.Size != "" {
		info.Bytes, _ = strconv.ParseInt(probe.Format.Size, 10, 64)
	}
	return info, nil
}

// transcodeArgs builds the ffmpeg argument list for one transcode run.
func transcodeArgs(input, output string, info VideoInfo, spec Spec) []string {
	args := []string{"-y", "-i", input, "-c:v", "libx264", "-b:v", "2000k", "-c:a", "aac"}

	if info.Width > maxVideoWidth {
		args = append(args, "-vf", fmt.Sprintf("scale=%d:-2", maxVideoWidth))
	}
	if spec.MaxVideoSecs > 0 && info.Duration > float64(spec.MaxVideoSecs) {
		args = append(args, "-t", strconv.Itoa(spec.MaxVideoSecs))
	}

	return append(args, output)
}

// runFFmpeg executes ffmpeg with the given args, returning stderr in the
// error on failure.
func runFFmpeg(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", args...) // #nosec G204 - args built by transcodeArgs
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		excerpt := stderr.String()
		if len(excerpt) > 512 {
			excerpt = excerpt[len(excerpt)-512:]
		}
		return fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(excerpt))
	}
	return nil
}
