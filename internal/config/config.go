package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	RedisURL    string

	// OpenAI assistant settings
	OpenAIAPIKey       string
	QuizBotAssistantID string
	QuizVectorStoreID  string

	// LearningMate tracking conversation. Only the thread is needed:
	// notices are appended as user messages, the LearningMate assistant
	// itself runs elsewhere.
	LearningMateThreadID string

	// Quiz lifecycle events
	KafkaBrokers    []string
	QuizEventsTopic string

	SessionSecret  string
	UploadDir      string
	RequestTimeout time.Duration
}

func LoadConfig() (*Config, error) {
	// Missing .env is fine, production sets env vars directly
	_ = godotenv.Load()

	return &Config{
		Port:                 getEnv("PORT", "8080"),
		Environment:          getEnv("ENVIRONMENT", "development"),
		RedisURL:             getEnv("REDIS_URL", "redis://localhost:6379"),
		OpenAIAPIKey:         getEnv("OPENAI_API_KEY", ""),
		QuizBotAssistantID:   getEnv("QUIZBOT_ASSISTANT_ID", ""),
		QuizVectorStoreID:    getEnv("QUIZBOT_VECTOR_STORE_ID", ""),
		LearningMateThreadID: getEnv("LEARNINGMATE_THREAD_ID", ""),
		KafkaBrokers:         []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
		QuizEventsTopic:      getEnv("QUIZ_EVENTS_TOPIC", "quiz-events"),
		SessionSecret:        getEnv("SESSION_SECRET", "supersecretkey"),
		UploadDir:            getEnv("UPLOAD_DIR", "./.cache/quiz_files"),
		RequestTimeout:       getDurationEnv("REQUEST_TIMEOUT_SECONDS", 10*time.Second),
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}
