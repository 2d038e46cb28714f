package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	Database struct {
		ConnectionString string `yaml:"connection_string"`
		MaxConns         int    `yaml:"max_conns"`
	} `yaml:"database"`
	Embeddings struct {
		Provider string `yaml:"provider"` // "ollama" or "openai"
		Ollama   struct {
			BaseURL string `yaml:"base_url"`
			Model   string `yaml:"model"`
		} `yaml:"ollama"`
		OpenAI struct {
			BaseURL    string `yaml:"base_url"`
			Model      string `yaml:"model"`
			APIKeyEnv  string `yaml:"api_key_env"`
			Dimensions int    `yaml:"dimensions"`
		} `yaml:"openai"`
	} `yaml:"embeddings"`
	Chat struct {
		BaseURL     string  `yaml:"base_url"`
		Model       string  `yaml:"model"`
		APIKeyEnv   string  `yaml:"api_key_env"`
		Temperature float32 `yaml:"temperature"`
	} `yaml:"chat"`
	Processing struct {
		ChunkSize          int     `yaml:"chunk_size"`
		ChunkOverlap       int     `yaml:"chunk_overlap"`
		BatchSize          int     `yaml:"batch_size"`
		MaxChunks          int     `yaml:"max_chunks"`
		RelevanceThreshold float64 `yaml:"relevance_threshold"`
		OverfetchFactor    int     `yaml:"overfetch_factor"`
	} `yaml:"processing"`
	News struct {
		BaseURL   string `yaml:"base_url"`
		APIKeyEnv string `yaml:"api_key_env"`
		Count     int    `yaml:"count"`
	} `yaml:"news"`
	Wiki struct {
		BaseURL string `yaml:"base_url"`
		Count   int    `yaml:"count"`
	} `yaml:"wiki"`
	Platform struct {
		BaseURL        string `yaml:"base_url"`
		AccessTokenEnv string `yaml:"access_token_env"`
	} `yaml:"platform"`
}

// Load loads configuration from file or returns defaults
func Load() (*Config, error) {
	cfg := Default()

	configPath := filepath.Join(os.Getenv("HOME"), ".postpilot", "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to file
func (c *Config) Save() error {
	configDir := filepath.Join(os.Getenv("HOME"), ".postpilot")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// Default returns default configuration
func Default() *Config {
	cfg := &Config{}

	cfg.Database.ConnectionString = "postgres://postgres@localhost/postgres?sslmode=disable"
	cfg.Database.MaxConns = 10

	cfg.Embeddings.Provider = "ollama"
	cfg.Embeddings.Ollama.BaseURL = "http://localhost:11434"
	cfg.Embeddings.Ollama.Model = "nomic-embed-text"
	cfg.Embeddings.OpenAI.BaseURL = "https://api.openai.com/v1"
	cfg.Embeddings.OpenAI.Model = "text-embedding-3-small"
	cfg.Embeddings.OpenAI.APIKeyEnv = "OPENAI_API_KEY"

	cfg.Chat.BaseURL = "https://api.groq.com/openai/v1"
	cfg.Chat.Model = "llama3-70b-8192"
	cfg.Chat.APIKeyEnv = "GROQ_API_KEY"
	cfg.Chat.Temperature = 0.7

	cfg.Processing.ChunkSize = 1000
	cfg.Processing.ChunkOverlap = 200
	cfg.Processing.BatchSize = 20
	cfg.Processing.MaxChunks = 5
	cfg.Processing.RelevanceThreshold = 0.5
	cfg.Processing.OverfetchFactor = 2

	cfg.News.BaseURL = "http://api.mediastack.com/v1/news"
	cfg.News.APIKeyEnv = "MEDIASTACK_API_KEY"
	cfg.News.Count = 10

	cfg.Wiki.BaseURL = "https://en.wikipedia.org/w/api.php"
	cfg.Wiki.Count = 10

	cfg.Platform.BaseURL = "https://api.x.com"
	cfg.Platform.AccessTokenEnv = "PLATFORM_ACCESS_TOKEN"

	return cfg
}
