package ai

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadPrompt reads an instruction file from the prompts directory.
func LoadPrompt(dir, name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("load prompt %s: %w", name, err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("prompt %s is empty", name)
	}
	return text, nil
}
