package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileReader reads source files, caching contents until a file changes on disk
type FileReader struct {
	contentCache *Cache[string, []byte]
}

// NewFileReader creates a FileReader with an empty cache
func NewFileReader() *FileReader {
	return &FileReader{
		contentCache: NewCache[string, []byte](),
	}
}

// ReadFile returns the contents of filePath
func (fr *FileReader) ReadFile(filePath string) ([]byte, error) {
	cleanPath, err := fr.cleanPath(filePath)
	if err != nil {
		return nil, err
	}

	return fr.contentCache.LoadFile(cleanPath, cleanPath, func() ([]byte, error) {
		content, err := os.ReadFile(cleanPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", filepath.Base(cleanPath), err)
		}
		return content, nil
	})
}

// InvalidateFile drops a file from the cache
func (fr *FileReader) InvalidateFile(filePath string) {
	if cleanPath, err := fr.cleanPath(filePath); err == nil {
		fr.contentCache.Delete(cleanPath)
	}
}

// CachedFiles returns the number of files held in the cache
func (fr *FileReader) CachedFiles() int {
	return fr.contentCache.Size()
}

func (fr *FileReader) cleanPath(filePath string) (string, error) {
	if filePath == "" {
		return "", fmt.Errorf("file path cannot be empty")
	}

	cleanPath := filepath.Clean(filePath)
	if _, err := os.Stat(cleanPath); os.IsNotExist(err) {
		return "", fmt.Errorf("file does not exist: %s", cleanPath)
	}
	return cleanPath, nil
}
