package config

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

type Config struct {
	// DefaultEncoding is the tokenizer used for token counts when the
	// --encoding flag is not given.
	DefaultEncoding string `json:"default_encoding"`
	// DefaultTemplatePath points at a Handlebars template used instead of
	// the built-in one when --template is not given.
	DefaultTemplatePath string `json:"default_template_path"`
	// UseAnthropicAPI switches token counting to the Anthropic count_tokens
	// endpoint when an API key is available in the environment.
	UseAnthropicAPI bool `json:"use_anthropic_api"`
	// ExcludePatterns is appended to the built-in default excludes on every
	// run.
	ExcludePatterns []string `json:"exclude_patterns"`
	AutoSave        bool     `json:"auto_save"`
}

// loads the config file
func LoadConfig() (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configPath := filepath.Join(home, ".config", "outline", "outline.json")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}

	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if config.DefaultEncoding == "" {
		config.DefaultEncoding = "o200k"
	}

	return &config, nil
}

func createDefaultConfig(configPath string) (*Config, error) {
	defaultConfig := Config{
		DefaultEncoding: "o200k",
		AutoSave:        false,
	}

	err := os.MkdirAll(filepath.Dir(configPath), 0750)
	if err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal default config: %w", err)
	}

	if err := os.WriteFile(configPath, file, 0644); err != nil {
		return nil, fmt.Errorf("failed to write default config file: %w", err)
	}

	return &defaultConfig, nil
}

// opens the config file in the default editor
func OpenConfig() error {
	home, err := homedir.Dir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configPath := filepath.Join(home, ".config", "outline", "outline.json")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist")
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vim"
	}

	return runCommand(editor, configPath)
}

// runs a command in the shell
func runCommand(command string, args ...string) error {
	cmd := exec.Command(command, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
