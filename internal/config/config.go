package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config is read once at startup and treated as immutable afterwards.
type Config struct {
	ListenPort int

	WebhookSecret string

	SMTPHost  string
	SMTPPort  int
	GmailUser string
	GmailPass string
	ToEmail   string

	OpenAIAPIKey string
	OpenAIModel  string

	TelegramBotToken string
	TelegramChatID   int64

	RequestTimeoutSecs int
}

func Load() *Config {
	cfg := &Config{
		GmailUser:        os.Getenv("GMAIL_USER"),
		GmailPass:        os.Getenv("GMAIL_APP_PASS"),
		ToEmail:          os.Getenv("TO_EMAIL"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	if cfg.GmailUser == "" {
		log.Println("Warning: GMAIL_USER not set")
	}
	if cfg.GmailPass == "" {
		log.Println("Warning: GMAIL_APP_PASS not set, email delivery will fail")
	}
	if cfg.ToEmail == "" {
		log.Println("Warning: TO_EMAIL not set")
	}
	if cfg.OpenAIAPIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set, analysis will fail")
	}

	cfg.WebhookSecret = strings.TrimSpace(os.Getenv("WEBHOOK_SECRET"))
	if cfg.WebhookSecret == "" {
		log.Println("Warning: WEBHOOK_SECRET not set, using default")
		cfg.WebhookSecret = "mytrading123"
	}

	cfg.SMTPHost = strings.TrimSpace(os.Getenv("SMTP_HOST"))
	if cfg.SMTPHost == "" {
		cfg.SMTPHost = "smtp.gmail.com"
	}

	cfg.SMTPPort = 587
	if v := strings.TrimSpace(os.Getenv("SMTP_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SMTPPort = n
		}
	}

	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}

	if v := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.TelegramChatID = n
		} else {
			log.Printf("Warning: invalid TELEGRAM_CHAT_ID %q, telegram channel disabled", v)
		}
	}

	cfg.ListenPort = 5000
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ListenPort = n
		}
	}

	cfg.RequestTimeoutSecs = 10
	if v := strings.TrimSpace(os.Getenv("REQUEST_TIMEOUT_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RequestTimeoutSecs = n
		}
	}

	return cfg
}
