package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Booking  BookingConfig  `toml:"booking"`
	Stripe   StripeConfig   `toml:"stripe"`
	Email    EmailConfig    `toml:"email"`
	Loyalty  LoyaltyConfig  `toml:"loyalty"`
}

// ServerConfig настройки HTTP-сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения для lib/pq
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus-метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// Политики назначения мастера для бронирований без указанного мастера
const (
	StaffAssignmentAuto       = "auto_assign"
	StaffAssignmentUnassigned = "unassigned"
)

// BookingConfig бизнес-настройки бронирования
type BookingConfig struct {
	// StaffAssignment политика для записей без выбранного мастера:
	// auto_assign - назначить первого свободного мастера при создании,
	// unassigned - оставить запись без мастера
	StaffAssignment string `toml:"staff_assignment"`
}

// StripeConfig настройки платёжного шлюза
type StripeConfig struct {
	SecretKey     string `toml:"secret_key"`
	WebhookSecret string `toml:"webhook_secret"`
	Currency      string `toml:"currency"`
	SuccessURL    string `toml:"success_url"`
	CancelURL     string `toml:"cancel_url"`
}

// EmailConfig настройки отправки писем через SendGrid
type EmailConfig struct {
	Enabled  bool   `toml:"enabled"`
	APIKey   string `toml:"api_key"`
	From     string `toml:"from"`
	FromName string `toml:"from_name"`
}

// LoyaltyConfig настройки программы лояльности
type LoyaltyConfig struct {
	// EarnRate баллов за единицу стоимости услуги (0.1 = 1 балл за 10)
	EarnRate float64 `toml:"earn_rate"`
}

// Load читает и валидирует конфигурацию из TOML-файла
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "salon-booking-service",
		},
		Booking: BookingConfig{
			StaffAssignment: StaffAssignmentAuto,
		},
		Stripe: StripeConfig{
			Currency: "eur",
		},
		Loyalty: LoyaltyConfig{
			EarnRate: 0.1,
		},
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	if cfg.Booking.StaffAssignment != StaffAssignmentAuto &&
		cfg.Booking.StaffAssignment != StaffAssignmentUnassigned {
		return nil, fmt.Errorf("invalid booking.staff_assignment: %q", cfg.Booking.StaffAssignment)
	}

	return cfg, nil
}
