package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadPrompt loads prompt instructions from a specific file path
// The path must be exact - no fallback searching is performed
func LoadPrompt(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file does not exist: %s", filePath)
		}
		return "", fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return strings.TrimSpace(string(content)), nil
}

// LoadPromptWithFallback loads prompt instructions from a specific file path with a fallback
// If the file is not found or empty, it returns the fallback string
func LoadPromptWithFallback(filePath, fallback string) string {
	if filePath == "" {
		return fallback
	}
	if content, err := LoadPrompt(filePath); err == nil && content != "" {
		return content
	}
	return fallback
}

// PromptPath joins a prompt directory and template name, returning "" when no directory is configured
func PromptPath(dir, name string) string {
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, name)
}
