package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	AllowedOrigin string
	OpenAIAPIKey  string
	Model         string
	// Local state directory (the profile-scoped storage for cached topics,
	// prompt override and the editor handoff record)
	DataDir string
	// Prompt spec for the embedded generation endpoint
	PromptSpecPath string
	// Database (optional selection log)
	DatabaseURL   string
	MigrationsDir string
	// Workflow defaults
	DefaultBrand string
	EditorPath   string
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Port:           getEnvDefault("PORT", "8080"),
		AllowedOrigin:  getEnvDefault("ALLOWED_ORIGIN", "*"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		Model:          getEnvDefault("OPENAI_MODEL", "gpt-4o-mini"),
		DataDir:        getEnvDefault("DATA_DIR", "data"),
		PromptSpecPath: getEnvDefault("TOPIC_PROMPT_FILE", "./prompts/topics.yaml"),
		DatabaseURL:    os.Getenv("DB_URL"),
		MigrationsDir:  getEnvDefault("MIGRATIONS_DIR", "./migrations"),
		DefaultBrand:   getEnvDefault("DEFAULT_BRAND", "My Brand"),
		EditorPath:     getEnvDefault("EDITOR_PATH", "/notebook"),
	}
	if cfg.OpenAIAPIKey == "" {
		log.Println("warning: OPENAI_API_KEY is not set; the local generation endpoint will be disabled")
	}
	return cfg
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
