package service

import (
	"context"
)

// BlobStore uploads raw bytes under a caller-generated key and returns a
// publicly resolvable URL
type BlobStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// OCREngine extracts text from an encoded image. Extraction is best-effort;
// an engine returns an empty string when no text is detected
type OCREngine interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}
