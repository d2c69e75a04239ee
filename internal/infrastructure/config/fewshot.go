package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// FewShotCategory describes one bias category in the prompt taxonomy
type FewShotCategory struct {
	Description string   `json:"description,omitempty"`
	SubTypes    []string `json:"sub_types"`
}

// FewShotExample is one in-context demonstration message. Content is always
// a string after loading; structured example replies are serialized to
// compact JSON at load time so prompt assembly stays a plain concatenation.
type FewShotExample struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// FewShotConfig is the few-shot prompting configuration, loaded once at
// startup and read-only afterwards. Example ordering is significant: the
// external model treats the pair sequence as in-context demonstrations.
type FewShotConfig struct {
	SystemPrompt string
	Categories   map[string]FewShotCategory
	Examples     []FewShotExample
	SourceFile   string
}

type rawFewShotConfig struct {
	SystemPrompt string                     `json:"system_prompt"`
	Categories   map[string]FewShotCategory `json:"categories"`
	Examples     []rawFewShotExample        `json:"few_shot_examples"`
}

type rawFewShotExample struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// LoadFewShot reads the few-shot examples file. A missing file is not an
// error: startup continues with a minimal default configuration.
func LoadFewShot(path string) (*FewShotConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultFewShotConfig(path), nil
		}
		return nil, fmt.Errorf("read few-shot config: %w", err)
	}

	var raw rawFewShotConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode few-shot config: %w", err)
	}

	cfg := &FewShotConfig{
		SystemPrompt: raw.SystemPrompt,
		Categories:   raw.Categories,
		Examples:     make([]FewShotExample, 0, len(raw.Examples)),
		SourceFile:   path,
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = defaultSystemPrompt
	}
	if cfg.Categories == nil {
		cfg.Categories = map[string]FewShotCategory{}
	}

	for i, ex := range raw.Examples {
		content, err := normalizeContent(ex.Content)
		if err != nil {
			return nil, fmt.Errorf("few-shot example %d: %w", i, err)
		}
		cfg.Examples = append(cfg.Examples, FewShotExample{Role: ex.Role, Content: content})
	}

	return cfg, nil
}

// normalizeContent returns string content as-is and re-serializes structured
// content to a compact JSON string.
func normalizeContent(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var obj any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", fmt.Errorf("content is neither string nor object: %w", err)
	}
	compact, err := json.Marshal(obj)
	if err != nil {
		return "", err
	}
	return string(compact), nil
}

// CategoryNames returns the taxonomy category names in sorted order
func (c *FewShotConfig) CategoryNames() []string {
	names := make([]string, 0, len(c.Categories))
	for name := range c.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TotalSubTypes counts sub-types across all categories
func (c *FewShotConfig) TotalSubTypes() int {
	total := 0
	for _, cat := range c.Categories {
		total += len(cat.SubTypes)
	}
	return total
}

// TotalExamplePairs counts the user/assistant demonstration pairs
func (c *FewShotConfig) TotalExamplePairs() int {
	return len(c.Examples) / 2
}

const defaultSystemPrompt = "You are a medical bias detection expert."

func defaultFewShotConfig(path string) *FewShotConfig {
	return &FewShotConfig{
		SystemPrompt: defaultSystemPrompt,
		Categories:   map[string]FewShotCategory{},
		Examples:     []FewShotExample{},
		SourceFile:   path,
	}
}
