package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/JaimeStill/medvision/internal/sessions"
)

// readFile loads an image from disk the way the upload endpoint receives it,
// sniffing the content type from the bytes.
func readFile(path string) (*sessions.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	return &sessions.File{
		Name:        filepath.Base(path),
		Size:        int64(len(data)),
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}
