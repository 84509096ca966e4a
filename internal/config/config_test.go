package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GMAIL_USER", "")
	t.Setenv("GMAIL_APP_PASS", "")
	t.Setenv("TO_EMAIL", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_MODEL", "")
	t.Setenv("WEBHOOK_SECRET", "")
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_PORT", "")
	t.Setenv("PORT", "")
	t.Setenv("REQUEST_TIMEOUT_SECS", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")

	cfg := Load()

	if cfg.WebhookSecret != "mytrading123" {
		t.Fatalf("expected default secret, got %q", cfg.WebhookSecret)
	}
	if cfg.SMTPHost != "smtp.gmail.com" || cfg.SMTPPort != 587 {
		t.Fatalf("unexpected SMTP defaults: %s:%d", cfg.SMTPHost, cfg.SMTPPort)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Fatalf("unexpected default model: %q", cfg.OpenAIModel)
	}
	if cfg.ListenPort != 5000 {
		t.Fatalf("expected default port 5000, got %d", cfg.ListenPort)
	}
	if cfg.RequestTimeoutSecs != 10 {
		t.Fatalf("expected default timeout 10s, got %d", cfg.RequestTimeoutSecs)
	}
	if cfg.TelegramChatID != 0 {
		t.Fatalf("expected telegram disabled, got chat %d", cfg.TelegramChatID)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GMAIL_USER", "trader@example.com")
	t.Setenv("GMAIL_APP_PASS", "app-pass")
	t.Setenv("TO_EMAIL", "inbox@example.com")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("WEBHOOK_SECRET", "s3cret")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("PORT", "8081")
	t.Setenv("REQUEST_TIMEOUT_SECS", "5")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tg-token")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")

	cfg := Load()

	if cfg.GmailUser != "trader@example.com" || cfg.GmailPass != "app-pass" || cfg.ToEmail != "inbox@example.com" {
		t.Fatalf("unexpected mail config: %+v", cfg)
	}
	if cfg.OpenAIAPIKey != "sk-test" || cfg.OpenAIModel != "gpt-4o" {
		t.Fatalf("unexpected openai config: %+v", cfg)
	}
	if cfg.WebhookSecret != "s3cret" {
		t.Fatalf("unexpected secret: %q", cfg.WebhookSecret)
	}
	if cfg.SMTPHost != "smtp.example.com" || cfg.SMTPPort != 2525 {
		t.Fatalf("unexpected SMTP config: %s:%d", cfg.SMTPHost, cfg.SMTPPort)
	}
	if cfg.ListenPort != 8081 || cfg.RequestTimeoutSecs != 5 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
	if cfg.TelegramBotToken != "tg-token" || cfg.TelegramChatID != -100123 {
		t.Fatalf("unexpected telegram config: %+v", cfg)
	}
}

func TestLoadInvalidNumbersKeepDefaults(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-port")
	t.Setenv("PORT", "-1")
	t.Setenv("REQUEST_TIMEOUT_SECS", "zero")
	t.Setenv("TELEGRAM_CHAT_ID", "abc")

	cfg := Load()

	if cfg.SMTPPort != 587 || cfg.ListenPort != 5000 || cfg.RequestTimeoutSecs != 10 {
		t.Fatalf("expected defaults for invalid numerics, got %+v", cfg)
	}
	if cfg.TelegramChatID != 0 {
		t.Fatalf("expected invalid chat id ignored, got %d", cfg.TelegramChatID)
	}
}
