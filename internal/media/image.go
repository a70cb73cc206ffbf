package media

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"socialmcp/internal/social"
)

const (
	startJPEGQuality = 85
	minJPEGQuality   = 20
	qualityStep      = 5
)

// Result describes one optimization run.
type Result struct {
	InputPath        string           `json:"input_path"`
	OutputPath       string           `json:"output_path"`
	MediaType        social.MediaType `json:"media_type"`
	OriginalBytes    int64            `json:"original_bytes"`
	OptimizedBytes   int64            `json:"optimized_bytes"`
	Width            int              `json:"width"`
	Height           int              `json:"height"`
	CompressionRatio float64          `json:"compression_ratio"`
}

// OptimizeImage resizes and re-encodes an image so it fits the merged limits
// of the target platforms. The output is a JPEG written next to the input as
// <stem>_optimized.jpg.
func OptimizeImage(path string, platforms []social.Platform) (Result, error) {
	spec := MergeSpecs(platforms)

	info, err := os.Stat(path)
	if err != nil {
		return Result{}, fmt.Errorf("stat %s: %w", path, err)
	}

	src, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return Result{}, fmt.Errorf("open image %s: %w", path, err)
	}

	bounds := src.Bounds()
	if bounds.Dx() > spec.MaxWidth || bounds.Dy() > spec.MaxHeight {
		src = imaging.Fit(src, spec.MaxWidth, spec.MaxHeight, imaging.Lanczos)
	}

	// JPEG has no alpha channel, flatten onto white.
	flattened := flatten(src)

	maxBytes := int64(spec.MaxImageMB * 1024 * 1024)
	encoded, err := encodeUnderLimit(flattened, maxBytes)
	if err != nil {
		return Result{}, err
	}

	outPath := optimizedPath(path, ".jpg")
	if err := os.WriteFile(outPath, encoded, 0600); err != nil {
		return Result{}, fmt.Errorf("write %s: %w", outPath, err)
	}

	outBounds := flattened.Bounds()
	result := Result{
		InputPath:      path,
		OutputPath:     outPath,
		MediaType:      social.MediaImage,
		OriginalBytes:  info.Size(),
		OptimizedBytes: int64(len(encoded)),
		Width:          outBounds.Dx(),
		Height:         outBounds.Dy(),
	}
	if info.Size() > 0 {
		result.CompressionRatio = float64(result.OptimizedBytes) / float64(result.OriginalBytes)
	}
	return result, nil
}

// encodeUnderLimit lowers JPEG quality until the encoded size fits maxBytes.
// The smallest attempt is returned even if it still exceeds the limit.
func encodeUnderLimit(img image.Image, maxBytes int64) ([]byte, error) {
	var buf bytes.Buffer
	for quality := startJPEGQuality; quality >= minJPEGQuality; quality -= qualityStep {
		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
		if int64(buf.Len()) <= maxBytes {
			break
		}
	}
	return buf.Bytes(), nil
}

// flatten composes the image over a white background, dropping any alpha.
func flatten(src image.Image) image.Image {
	bounds := src.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, bounds, src, bounds.Min, draw.Over)
	return out
}

// optimizedPath derives the output filename: <dir>/<stem>_optimized<ext>.
func optimizedPath(input, ext string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(input), stem+"_optimized"+ext)
}
