package prompts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PromptKey is a type for identifying specific prompts.
type PromptKey string

const (
	// KeySystem is the key for the shared system-role prompt.
	KeySystem PromptKey = "System"
	// KeySpecGeneration is the key for the main spec-generation prompt.
	KeySpecGeneration PromptKey = "SpecGeneration"
	// KeyClarifyingQuestions is the key for the clarification prompt.
	KeyClarifyingQuestions PromptKey = "ClarifyingQuestions"
	// KeyRefineSpec is the key for the refinement prompt.
	KeyRefineSpec PromptKey = "RefineSpec"
)

// promptConfig defines the default content and filename for a prompt.
type promptConfig struct {
	defaultContent string
	filename       string
}

// promptRegistry maps a PromptKey to its configuration.
var promptRegistry = map[PromptKey]promptConfig{
	KeySystem: {
		defaultContent: SystemPrompt,
		filename:       "system_prompt.txt",
	},
	KeySpecGeneration: {
		defaultContent: SpecGenerationPrompt,
		filename:       "spec_generation_prompt.txt",
	},
	KeyClarifyingQuestions: {
		defaultContent: ClarifyingQuestionsPrompt,
		filename:       "clarifying_questions_prompt.txt",
	},
	KeyRefineSpec: {
		defaultContent: RefineSpecPrompt,
		filename:       "refine_spec_prompt.txt",
	},
}

// GetPrompt searches for a user-provided prompt file in the project's
// templates directory. If found, it returns the content of that file.
// Otherwise it returns the built-in default template.
func GetPrompt(key PromptKey, templatesDir string) (string, error) {
	config, ok := promptRegistry[key]
	if !ok {
		return "", fmt.Errorf("unrecognized prompt key: %s", key)
	}

	// If templatesDir is not configured, always use the default.
	if strings.TrimSpace(templatesDir) == "" {
		return config.defaultContent, nil
	}

	customPromptPath := filepath.Join(templatesDir, config.filename)
	if _, err := os.Stat(customPromptPath); err == nil {
		content, readErr := os.ReadFile(customPromptPath)
		if readErr != nil {
			return "", fmt.Errorf("failed to read custom prompt file at %s: %w", customPromptPath, readErr)
		}
		return string(content), nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("error checking for custom prompt file at %s: %w", customPromptPath, err)
	}

	return config.defaultContent, nil
}
