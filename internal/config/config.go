package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for the ChatUp server.
// Values are read from environment variables with sensible local defaults.
type Config struct {
	AppPort        string // listen address, e.g. ":5000"
	MongoURI       string
	DBName         string
	UserCollection string
	ChatCollection string

	SMTPServer    string
	SMTPPort      int
	EmailAddress  string
	EmailPassword string
	BaseURL       string // public base URL used in emailed links

	GeminiAPIKey  string
	GeminiBaseURL string
	TavilyAPIKey  string

	JWTSecret   string
	RabbitMQURL string // optional; empty means synchronous email dispatch

	StaticDir string // directory holding the single-page frontend
}

// Load reads configuration from the environment via Viper.
func Load() Config {
	viper.SetDefault("PORT", "5000")
	viper.SetDefault("MONGODB_URI", "mongodb://localhost:27017/")
	viper.SetDefault("DB_NAME", "Credentials")
	viper.SetDefault("COLLECTION_NAME", "User_info")
	viper.SetDefault("CHAT_COLLECTION_NAME", "Chat_History")
	viper.SetDefault("SMTP_SERVER", "smtp.gmail.com")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("BASE_URL", "http://localhost:5000")
	viper.SetDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/")
	viper.SetDefault("JWT_SECRET", "chatup_dev_secret")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("STATIC_DIR", ".")
	viper.AutomaticEnv() // Load environment variables

	return Config{
		AppPort:        fmt.Sprintf(":%s", viper.GetString("PORT")),
		MongoURI:       viper.GetString("MONGODB_URI"),
		DBName:         viper.GetString("DB_NAME"),
		UserCollection: viper.GetString("COLLECTION_NAME"),
		ChatCollection: viper.GetString("CHAT_COLLECTION_NAME"),
		SMTPServer:     viper.GetString("SMTP_SERVER"),
		SMTPPort:       viper.GetInt("SMTP_PORT"),
		EmailAddress:   viper.GetString("EMAIL_ADDRESS"),
		EmailPassword:  viper.GetString("EMAIL_PASSWORD"),
		BaseURL:        viper.GetString("BASE_URL"),
		GeminiAPIKey:   viper.GetString("GEMINI_API_KEY"),
		GeminiBaseURL:  viper.GetString("GEMINI_BASE_URL"),
		TavilyAPIKey:   viper.GetString("TAVILY_API_KEY"),
		JWTSecret:      viper.GetString("JWT_SECRET"),
		RabbitMQURL:    viper.GetString("RABBITMQ_URL"),
		StaticDir:      viper.GetString("STATIC_DIR"),
	}
}
