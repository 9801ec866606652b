package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DBUser        string
	DBPassword    string
	DBHost        string
	DBPort        string
	DBName        string
	JWTSecret     string
	WebhookSecret string

	Assistant AssistantConfig
}

// AssistantConfig tunes the query pipeline. Loaded from finbot.yaml when
// present, otherwise defaults apply.
type AssistantConfig struct {
	PythonBin        string `yaml:"python_bin"`
	QueryScript      string `yaml:"query_script"`
	SummaryScript    string `yaml:"summary_script"`
	SummaryThreshold int    `yaml:"summary_threshold"`
	TitleWords       int    `yaml:"title_words"`
}

func LoadConfig() Config {
	// No .env file is fine, system environment still applies
	_ = godotenv.Load()

	cfg := Config{
		DBUser:        getEnv("DB_USER", ""),
		DBPassword:    getEnv("DB_PASSWORD", ""),
		DBHost:        getEnv("DB_HOST", ""),
		DBPort:        getEnv("DB_PORT", ""),
		DBName:        getEnv("DB_NAME", ""),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		WebhookSecret: getEnv("CLERK_WEBHOOK_SECRET", ""),
		Assistant:     DefaultAssistantConfig(),
	}
	loadAssistantFile(&cfg.Assistant, getEnv("FINBOT_CONFIG", "finbot.yaml"))
	return cfg
}

func DefaultAssistantConfig() AssistantConfig {
	return AssistantConfig{
		PythonBin:        "python",
		QueryScript:      "python/main.py",
		SummaryScript:    "python/summary_long_term_memory/memory.py",
		SummaryThreshold: 5,
		TitleWords:       5,
	}
}

func loadAssistantFile(ac *AssistantConfig, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var fileCfg AssistantConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return
	}
	if fileCfg.PythonBin != "" {
		ac.PythonBin = fileCfg.PythonBin
	}
	if fileCfg.QueryScript != "" {
		ac.QueryScript = fileCfg.QueryScript
	}
	if fileCfg.SummaryScript != "" {
		ac.SummaryScript = fileCfg.SummaryScript
	}
	if fileCfg.SummaryThreshold > 0 {
		ac.SummaryThreshold = fileCfg.SummaryThreshold
	}
	if fileCfg.TitleWords > 0 {
		ac.TitleWords = fileCfg.TitleWords
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}
