package config

import "github.com/spf13/viper"

// Config holds everything the binary needs, loaded from environment
// variables or an optional app.env file.
type Config struct {
	ServerPort   string `mapstructure:"SERVER_PORT"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	JWTSecret    string `mapstructure:"JWT_SECRET"`
	ClientOrigin string `mapstructure:"CLIENT_ORIGIN"`

	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	TrackingCacheTTLSecs int    `mapstructure:"TRACKING_CACHE_TTL_SECONDS"`

	TelegramBotToken string `mapstructure:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   string `mapstructure:"TELEGRAM_CHAT_ID"`

	EmailEnabled bool   `mapstructure:"EMAIL_ENABLED"`
	AWSRegion    string `mapstructure:"AWS_REGION"`
	EmailFrom    string `mapstructure:"EMAIL_FROM"`
}

// LoadConfig reads app.env from the given path if present, then lets real
// environment variables override it.
func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("CLIENT_ORIGIN", "http://localhost:5173")
	viper.SetDefault("TRACKING_CACHE_TTL_SECONDS", 120)
	viper.SetDefault("EMAIL_ENABLED", false)
	viper.SetDefault("AWS_REGION", "eu-central-1")

	if err := viper.ReadInConfig(); err != nil {
		// A missing file is fine; the environment is the source of truth
		// in deployed setups.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
