package matching

import (
	"context"
)

// Extractor computes a face embedding from raw image bytes. Implementations
// return an error when no face is detected or the image cannot be processed.
type Extractor interface {
	ExtractFace(ctx context.Context, image []byte) ([]float32, error)
}

// ImageFetcher loads image bytes from a photo reference (http(s) URL or local
// file path).
type ImageFetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}
