package ports

import (
	"context"

	"sello/internal/provider/models"
)

// Collaborator contracts the pipeline depends on. Implementations are
// external model services (OCR, face similarity, moderation); the pipeline
// treats them as pluggable, possibly mocked, scorers. Every call takes a
// context so per-collaborator timeouts apply uniformly.

// TextExtractor performs OCR over an image.
type TextExtractor interface {
	ExtractText(ctx context.Context, image models.ImageRef) (string, error)
}

// ImageMetrics is the pixel-level summary the quality checks consume.
type ImageMetrics struct {
	Width          int
	Height         int
	SharpnessScore float64 // variance of pixel intensities; higher is sharper
	Brightness     float64 // mean intensity, 0-255
}

// ImageAnalyzer computes pixel-level metrics for an image.
type ImageAnalyzer interface {
	AnalyzeImage(ctx context.Context, image models.ImageRef) (ImageMetrics, error)
}

// FaceComparison is the result of a face-similarity scoring call.
type FaceComparison struct {
	Similarity float64 // 0.0-1.0, higher is more similar
}

// FaceComparer scores facial similarity between two images.
type FaceComparer interface {
	CompareFaces(ctx context.Context, a, b models.ImageRef) (FaceComparison, error)
}

// ModerationResult carries per-category scores from the moderation scorer.
type ModerationResult struct {
	CategoryScores map[string]float64 // category -> 0.0-1.0
}

// ImageModerator scores an image for unsafe content.
type ImageModerator interface {
	ModerateImage(ctx context.Context, image models.ImageRef) (ModerationResult, error)
}

// ImageFetcher resolves a remote image reference into local bytes. Called
// once at the pipeline boundary; validators only ever see resolved refs.
type ImageFetcher interface {
	FetchImage(ctx context.Context, image models.ImageRef) ([]byte, error)
}
