package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`
	// Public site URL, also the primary CORS origin
	BaseURL            string   `env:"NEXT_PUBLIC_BASE_URL" envDefault:"http://localhost:3000"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	// SMTP Configuration
	SMTPHost               string `env:"SMTP_HOST"`
	SMTPPort               string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername           string `env:"SMTP_USER"`
	SMTPPassword           string `env:"SMTP_PASSWORD"`
	SMTPInsecureSkipVerify bool   `env:"SMTP_INSECURE_SKIP_VERIFY" envDefault:"true"` // self-signed relays
	MailFrom               string `env:"MAIL_FROM" envDefault:"no-reply@rdhjunior.com"`
	// Contact form
	ContactEmailTo  string `env:"CONTACT_EMAIL_TO" envDefault:"ratulahmedreadhoan123@gmail.com"`
	ContactFormName string `env:"CONTACT_FORM_NAME" envDefault:"RDH JUNIOR"`
	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

func LoadConfig() (*Config, error) {
	// Only present in local development; production uses the real environment
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	// Avoid double slashes when the URL is joined or compared against Origin
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.SMTPHost == "" {
		log.Println("WARNING: SMTP_HOST is missing. Contact form submissions will fail with a configuration error.")
	}
	if cfg.SMTPUsername == "" || cfg.SMTPPassword == "" {
		log.Println("WARNING: SMTP credentials not configured. Relays requiring AUTH will reject messages.")
	}

	return cfg, nil
}

// AllowedOrigins returns the base URL followed by any extra CORS origins.
func (c *Config) AllowedOrigins() []string {
	origins := make([]string, 0, len(c.CORSAllowedOrigins)+1)
	if c.BaseURL != "" {
		origins = append(origins, c.BaseURL)
	}
	for _, o := range c.CORSAllowedOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
