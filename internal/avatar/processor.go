// Package avatar normalizes uploaded images into the canonical 250x250 avatar
// asset: decode, trim uniform borders, cover-crop to a centered square, scale,
// re-encode, and hand off to durable storage.
package avatar

import (
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"contacts-service/internal/apperr"
)

const (
	Size        = 250
	jpegQuality = 85

	// Channel tolerance (16-bit) when deciding whether an edge row or
	// column still belongs to the uniform border.
	borderTolerance = 0x0400
)

type Processor struct {
	storage Storage
}

func NewProcessor(storage Storage) *Processor {
	return &Processor{storage: storage}
}

// Process normalizes the uploaded file at tempPath and moves it into storage
// as "{userID}_{originalName}". The temp file is consumed on every exit path,
// success or failure.
func (p *Processor) Process(ctx context.Context, tempPath string, userID uuid.UUID, originalName string) (string, error) {
	// The rename in Store consumes the temp file on success; on any failure
	// this sweep removes whatever is left behind.
	defer os.Remove(tempPath)

	f, err := os.Open(tempPath)
	if err != nil {
		return "", apperr.Internal("Failed to read upload")
	}

	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return "", apperr.Unprocessable("Cannot process image")
	}

	normalized := cover(img, autocrop(img), Size)

	// Rewrite atomically: encode next to the upload, then rename over it.
	normPath := tempPath + ".norm"
	out, err := os.Create(normPath)
	if err != nil {
		return "", apperr.Internal("Failed to process image")
	}
	if err := jpeg.Encode(out, normalized, &jpeg.Options{Quality: jpegQuality}); err != nil {
		out.Close()
		os.Remove(normPath)
		return "", apperr.Internal("Failed to process image")
	}
	if err := out.Close(); err != nil {
		os.Remove(normPath)
		return "", apperr.Internal("Failed to process image")
	}
	if err := os.Rename(normPath, tempPath); err != nil {
		os.Remove(normPath)
		return "", apperr.Internal("Failed to process image")
	}

	filename := fmt.Sprintf("%s_%s", userID, originalName)

	return p.storage.Store(ctx, tempPath, filename)
}

// autocrop returns the bounds of img with uniform borders trimmed, using the
// top-left pixel as the border color. A fully uniform image keeps its bounds.
func autocrop(img image.Image) image.Rectangle {
	bounds := img.Bounds()
	border := img.At(bounds.Min.X, bounds.Min.Y)

	trimmed := bounds
	for trimmed.Dy() > 1 && uniformRow(img, trimmed, trimmed.Min.Y, border) {
		trimmed.Min.Y++
	}
	for trimmed.Dy() > 1 && uniformRow(img, trimmed, trimmed.Max.Y-1, border) {
		trimmed.Max.Y--
	}
	for trimmed.Dx() > 1 && uniformColumn(img, trimmed, trimmed.Min.X, border) {
		trimmed.Min.X++
	}
	for trimmed.Dx() > 1 && uniformColumn(img, trimmed, trimmed.Max.X-1, border) {
		trimmed.Max.X--
	}

	// Nothing but border: keep the original frame.
	if trimmed.Dx() <= 1 && trimmed.Dy() <= 1 {
		return bounds
	}

	return trimmed
}

func uniformRow(img image.Image, r image.Rectangle, y int, border color.Color) bool {
	for x := r.Min.X; x < r.Max.X; x++ {
		if !sameColor(img.At(x, y), border) {
			return false
		}
	}
	return true
}

func uniformColumn(img image.Image, r image.Rectangle, x int, border color.Color) bool {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		if !sameColor(img.At(x, y), border) {
			return false
		}
	}
	return true
}

func sameColor(a, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return diff(ar, br) <= borderTolerance &&
		diff(ag, bg) <= borderTolerance &&
		diff(ab, bb) <= borderTolerance &&
		diff(aa, ba) <= borderTolerance
}

func diff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

// cover scales the src rectangle onto a size x size canvas, cropping the
// longer dimension around the center so the content fills the frame.
func cover(img image.Image, src image.Rectangle, size int) image.Image {
	crop := src
	if src.Dx() > src.Dy() {
		excess := src.Dx() - src.Dy()
		crop.Min.X += excess / 2
		crop.Max.X = crop.Min.X + src.Dy()
	} else if src.Dy() > src.Dx() {
		excess := src.Dy() - src.Dx()
		crop.Min.Y += excess / 2
		crop.Max.Y = crop.Min.Y + src.Dx()
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, crop, draw.Src, nil)

	return dst
}
