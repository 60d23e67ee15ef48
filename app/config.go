package main

import "github.com/spf13/viper"

type Config struct {
	Port            string `mapstructure:"PORT"`
	Environment     string `mapstructure:"ENVIRONMENT"`
	Version         string `mapstructure:"VERSION"`
	BaseURL         string `mapstructure:"BASE_URL"`
	DisplayTimezone string `mapstructure:"DISPLAY_TIMEZONE"`

	TLSCertFile string `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile  string `mapstructure:"TLS_KEY_FILE"`

	DBHost     string `mapstructure:"POSTGRES_HOST"`
	DBPort     string `mapstructure:"POSTGRES_PORT"`
	DBUser     string `mapstructure:"POSTGRES_USER"`
	DBPassword string `mapstructure:"POSTGRES_PASSWORD"`
	DBName     string `mapstructure:"POSTGRES_DB"`

	MailHost     string `mapstructure:"MAIL_HOST"`
	MailPort     int    `mapstructure:"MAIL_PORT"`
	MailUser     string `mapstructure:"MAIL_USER"`
	MailPassword string `mapstructure:"MAIL_PASSWORD"`
	MailSender   string `mapstructure:"MAIL_SENDER"`

	MQHost     string `mapstructure:"RABBITMQ_HOST"`
	MQPort     string `mapstructure:"RABBITMQ_PORT"`
	MQUser     string `mapstructure:"RABBITMQ_USER"`
	MQPassword string `mapstructure:"RABBITMQ_PASSWORD"`

	LimiterRPS     float64 `mapstructure:"LIMITER_RPS"`
	LimiterBurst   int     `mapstructure:"LIMITER_BURST"`
	LimiterEnabled bool    `mapstructure:"LIMITER_ENABLED"`
}

func loadConfig(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.SetConfigType("env")

	viper.SetDefault("PORT", ":8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("BASE_URL", "http://localhost:8080")
	viper.SetDefault("DISPLAY_TIMEZONE", "UTC")
	viper.SetDefault("LIMITER_RPS", 25)
	viper.SetDefault("LIMITER_BURST", 50)
	viper.SetDefault("LIMITER_ENABLED", true)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
