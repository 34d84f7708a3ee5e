//go:build ocr

package ocr

import (
	"fmt"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// Client wraps a Tesseract engine. It is safe for concurrent use; calls
// are serialized because the engine holds per-image state.
type Client struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// New creates a client recognizing the given Tesseract languages, for
// example "deu" and "eng". With no languages Tesseract's default is used.
// The client should be closed when no longer needed.
func New(langs ...string) (*Client, error) {
	c := &Client{client: gosseract.NewClient()}
	if len(langs) > 0 {
		if err := c.client.SetLanguage(langs...); err != nil {
			c.client.Close()
			return nil, fmt.Errorf("setting OCR languages %v: %w", langs, err)
		}
	}
	return c, nil
}

// Close releases OCR resources. It is safe to call on a nil client.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.client.Close()
	c.client = nil
	return err
}

// RecognizeImage returns the text found in an encoded image (PNG, JPEG,
// TIFF and the other formats Leptonica reads), trimmed.
func (c *Client) RecognizeImage(data []byte) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return "", ErrClosed
	}
	if err := c.client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}
	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// SetPageSegMode sets how Tesseract analyzes the page layout.
func (c *Client) SetPageSegMode(mode PageSegMode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return ErrClosed
	}
	return c.client.SetPageSegMode(gosseract.PageSegMode(mode))
}
