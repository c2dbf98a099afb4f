/**
* Name: 			config.go
* Description: 		Environment configuration for the advisor server
* Workflow: 		load .env, read API keys and tuning values, report missing keys
 */

package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvGroqAPIKey   = "GROQ_API_KEY"
	EnvSerperAPIKey = "SERPER_API_KEY"

	DefaultModel         = "llama-3.1-8b-instant"
	DefaultGroqBaseURL   = "https://api.groq.com/openai/v1"
	DefaultSerperBaseURL = "https://google.serper.dev"
	DefaultPort          = "8080"
)

// MissingKeysMessage is shown in place of the form when a credential is absent.
const MissingKeysMessage = "Missing API keys. Add SERPER_API_KEY and GROQ_API_KEY."

var ErrMissingCredentials = errors.New("missing API credentials")

type Config struct {
	GroqAPIKey    string
	SerperAPIKey  string
	Model         string
	GroqBaseURL   string
	SerperBaseURL string
	SerperResults int
	SerperCountry string
	Temperature   float32
	MaxIter       int
	HTTPTimeout   time.Duration
	CrewConfig    string
	Port          string
}

// Load reads the process environment, after merging a .env file when one exists.
// When a credential is missing the config is still returned together with
// ErrMissingCredentials so the server can keep running and report it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Load(): No .env file found, using environment variables")
	}

	cfg := &Config{
		GroqAPIKey:    os.Getenv(EnvGroqAPIKey),
		SerperAPIKey:  os.Getenv(EnvSerperAPIKey),
		Model:         getEnv("GROQ_MODEL", DefaultModel),
		GroqBaseURL:   getEnv("GROQ_BASE_URL", DefaultGroqBaseURL),
		SerperBaseURL: getEnv("SERPER_BASE_URL", DefaultSerperBaseURL),
		SerperCountry: os.Getenv("SERPER_COUNTRY"),
		CrewConfig:    os.Getenv("CREW_CONFIG"),
		Port:          getEnv("PORT", DefaultPort),
	}

	var err error
	if cfg.SerperResults, err = getInt("SERPER_RESULTS", 10); err != nil {
		return nil, err
	}
	if cfg.MaxIter, err = getInt("AGENT_MAX_ITER", 5); err != nil {
		return nil, err
	}
	temperature, err := getFloat("LLM_TEMPERATURE", 0.7)
	if err != nil {
		return nil, err
	}
	cfg.Temperature = float32(temperature)
	if cfg.HTTPTimeout, err = getDuration("LLM_HTTP_TIMEOUT", 2*time.Minute); err != nil {
		return nil, err
	}

	if missing := cfg.MissingKeys(); len(missing) > 0 {
		return cfg, fmt.Errorf("%w: %v", ErrMissingCredentials, missing)
	}
	return cfg, nil
}

// MissingKeys returns the names of the credential variables that are unset.
func (c *Config) MissingKeys() []string {
	var missing []string
	if c.SerperAPIKey == "" {
		missing = append(missing, EnvSerperAPIKey)
	}
	if c.GroqAPIKey == "" {
		missing = append(missing, EnvGroqAPIKey)
	}
	return missing
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", key, v)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a non-negative number", key, v)
	}
	return f, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive duration", key, v)
	}
	return d, nil
}
