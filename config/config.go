package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Port      string `mapstructure:"port"`
	UploadDir string `mapstructure:"upload_dir"`

	ChunkSize    int `mapstructure:"chunk_size"`
	ChunkOverlap int `mapstructure:"chunk_overlap"`

	TopK            int `mapstructure:"top_k"`
	MaxContextChars int `mapstructure:"max_context_chars"`

	MongoConfig  MongoConfig  `mapstructure:"mongo"`
	OpenAIConfig OpenAIConfig `mapstructure:"openai"`
	GeminiConfig GeminiConfig `mapstructure:"gemini"`

	// Generator selects the generative provider: "openai" or "gemini".
	Generator string `mapstructure:"generator"`

	LogFile string `mapstructure:"log_file"`
	Prod    bool   `mapstructure:"prod"`
}

type MongoConfig struct {
	URI        string `mapstructure:"MONGODB_URI"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

type OpenAIConfig struct {
	BaseURL       string `mapstructure:"base_url"`
	APIKey        string `mapstructure:"OPENAI_API_KEY"`
	ChatModel     string `mapstructure:"chat_model"`
	EmbedModel    string `mapstructure:"embed_model"`
	EmbedBatch    int    `mapstructure:"embed_batch"`
	EmbedMaxChars int    `mapstructure:"embed_max_chars"`
	MaxRetries    int    `mapstructure:"max_retries"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"GEMINI_API_KEY"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max_retries"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.BindEnv("mongo.MONGODB_URI", "MONGODB_URI")
	v.BindEnv("openai.OPENAI_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("gemini.GEMINI_API_KEY", "GEMINI_API_KEY")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if config.ChunkOverlap >= config.ChunkSize {
		return nil, fmt.Errorf("chunk_overlap (%d) must be smaller than chunk_size (%d)", config.ChunkOverlap, config.ChunkSize)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "5000")
	v.SetDefault("upload_dir", "./uploads")
	v.SetDefault("chunk_size", 2000)
	v.SetDefault("chunk_overlap", 100)
	v.SetDefault("top_k", 4)
	v.SetDefault("max_context_chars", 12000)
	v.SetDefault("generator", "openai")
	v.SetDefault("log_file", "logs/docqa.log")
	v.SetDefault("mongo.database", "docqa")
	v.SetDefault("mongo.collection", "chunks")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.chat_model", "gpt-4o-mini")
	v.SetDefault("openai.embed_model", "text-embedding-3-small")
	v.SetDefault("openai.embed_batch", 96)
	v.SetDefault("openai.embed_max_chars", 20000)
	v.SetDefault("openai.max_retries", 2)
	v.SetDefault("gemini.model", "gemini-1.5-flash")
	v.SetDefault("gemini.max_retries", 2)
}
