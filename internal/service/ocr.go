package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine implements OCREngine using the gosseract client. Clients
// are not safe for concurrent use, so one is created per recognition.
type TesseractEngine struct {
	clientFactory func() *gosseract.Client
}

// NewTesseractEngine constructs a Tesseract-backed OCR engine. It probes the
// installation once so that a missing tesseract binary is detected at boot
// rather than on the first submission.
func NewTesseractEngine() (*TesseractEngine, error) {
	e := &TesseractEngine{clientFactory: gosseract.NewClient}

	c := e.clientFactory()
	defer c.Close()
	langs, err := c.GetAvailableLanguages()
	if err != nil {
		return nil, fmt.Errorf("tesseract is not available: %w", err)
	}
	if len(langs) == 0 {
		return nil, fmt.Errorf("tesseract has no language data installed")
	}

	return e, nil
}

// ExtractText runs OCR on an encoded image and returns the trimmed text
func (e *TesseractEngine) ExtractText(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("failed to recognize text: %w", err)
	}

	return strings.TrimSpace(text), nil
}
