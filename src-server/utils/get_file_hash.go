package utils

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
)

func GetFileHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("GetFileHash: %w", err)
	}
	defer file.Close()

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return "", fmt.Errorf("GetFileHash: %w", err)
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
