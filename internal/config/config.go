package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"

	"github.com/lexigraph/lexigraph/internal/errs"
)

type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
	Env  string `envconfig:"ENV" default:"development"`
}

type LLMConfig struct {
	Provider        string `envconfig:"LLM_PROVIDER" default:"groq"`
	APIKey          string `envconfig:"LLM_API_KEY"`
	BaseURL         string `envconfig:"LLM_BASE_URL"`
	ExtractionModel string `envconfig:"EXTRACTION_MODEL" default:"llama-3.3-70b-versatile"`
	QueryModel      string `envconfig:"QUERY_MODEL" default:"llama-3.3-70b-versatile"`
	EmbeddingModel  string `envconfig:"EMBEDDING_MODEL"`

	// Token caps for cost control.
	MaxExtractionTokens int `envconfig:"MAX_EXTRACTION_TOKENS" default:"4000"`
	MaxQueryTokens      int `envconfig:"MAX_QUERY_TOKENS" default:"2000"`
}

type Neo4jConfig struct {
	URI      string `envconfig:"NEO4J_URI" default:"bolt://localhost:7687"`
	Username string `envconfig:"NEO4J_USERNAME" default:"neo4j"`
	Password string `envconfig:"NEO4J_PASSWORD"`
}

// Prompts overrides the built-in prompt templates. Empty fields keep
// the defaults compiled into each step.
type Prompts struct {
	Extraction struct {
		System string `toml:"system"`
	} `toml:"extraction"`
	Query struct {
		CypherSystem string `toml:"cypher_system"`
		AnswerSystem string `toml:"answer_system"`
	} `toml:"query"`
	Analysis struct {
		Conflicts string `toml:"conflicts"`
	} `toml:"analysis"`
	Summary struct {
		Meeting      string `toml:"meeting"`
		CrossMeeting string `toml:"cross_meeting"`
	} `toml:"summary"`
}

type Config struct {
	Server ServerConfig
	LLM    LLMConfig
	Neo4j  Neo4jConfig

	// Matcher selects how relationship endpoints resolve to existing nodes:
	// "substring" (default), "exact", or "embedding" (needs a provider with
	// an embeddings endpoint).
	Matcher string `envconfig:"ENTITY_MATCHER" default:"substring"`

	PromptsPath string  `envconfig:"PROMPTS_PATH" default:"config/prompts.toml"`
	Prompts     Prompts `ignored:"true"`
}

// Load reads configuration from the environment, then merges the optional
// TOML prompt-override file. Missing required secrets fail here.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errs.New(errs.KindConfig, "failed to read environment", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if data, err := os.ReadFile(cfg.PromptsPath); err == nil {
		if err := toml.Unmarshal(data, &cfg.Prompts); err != nil {
			return nil, errs.New(errs.KindConfig, fmt.Sprintf("failed to parse %s", cfg.PromptsPath), err)
		}
	}

	return &cfg, nil
}

// Validate checks that required secrets are present.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return errs.New(errs.KindConfig, "LLM_API_KEY is required. Set it in .env.", nil)
	}
	if c.Neo4j.Password == "" {
		return errs.New(errs.KindConfig, "NEO4J_PASSWORD is required. Set it in .env.", nil)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
