package filehandler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

/*
File explanation:
This file contains the input side of PNGProbe: detecting file formats, reading
whole files under a size cap, and writing output files.
DetectFileFormat checks the extension first and falls back to sniffing content.
ReadFileBytes loads a file into memory in one read, refusing oversized inputs.
SaveFile writes data to a file, creating parent directories as needed.
*/

// ErrFileTooLarge is returned when a file exceeds the configured size limit
var ErrFileTooLarge = errors.New("file too large")

// SupportedFormats is a map of file extensions to their format names
var SupportedFormats = map[string]string{
	".png":  "png",
	".apng": "png",
}

// DetectFileFormat detects the format of a file
func DetectFileFormat(filePath string) (string, error) {
	// First check extension
	ext := strings.ToLower(filepath.Ext(filePath))
	if format, ok := SupportedFormats[ext]; ok {
		return format, nil
	}

	// If extension not recognized, try to detect by content
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	// Read first 512 bytes to detect content type
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	contentType := http.DetectContentType(buffer[:n])
	if strings.Contains(contentType, "image/png") {
		return "png", nil
	}
	return "", fmt.Errorf("unsupported file format: %s", contentType)
}

// ReadFileBytes reads a file and returns its content as a byte array.
// Files larger than maxSize bytes are refused.
func ReadFileBytes(filePath string, maxSize int64) ([]byte, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", filePath)
	}

	size := info.Size()
	if maxSize > 0 && size > maxSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, size, maxSize)
	}

	content := make([]byte, size)
	_, err = io.ReadFull(file, content)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return content, nil
}

// SaveFile saves data to a file
func SaveFile(data []byte, filePath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}

	return nil
}

// CreateFile opens filePath for writing, creating parent directories
func CreateFile(filePath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return file, nil
}
