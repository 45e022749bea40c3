package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig `json:"server"`

	// Database Configuration
	Database DatabaseConfig `json:"database"`

	// Scheduled statistics runs
	Scheduler SchedulerConfig `json:"scheduler"`

	// Live delivery channel
	Push PushConfig `json:"push"`

	// Logging Configuration
	Logging LoggingConfig `json:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port         string `json:"port"`
	Host         string `json:"host"`
	ReadTimeout  int    `json:"read_timeout"`
	WriteTimeout int    `json:"write_timeout"`
	Environment  string `json:"environment"` // development, staging, production
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	DatabaseName string `json:"database_name"`
	MaxOpenConns int    `json:"max_open_conns"`
	MaxIdleConns int    `json:"max_idle_conns"`
}

// SchedulerConfig fixes the calendar points the three stats runs fire at.
type SchedulerConfig struct {
	DailyHour     int  `json:"daily_hour"`      // hour of day, 0-23
	WeeklyWeekday int  `json:"weekly_weekday"`  // 0 = Sunday .. 6 = Saturday
	WeeklyHour    int  `json:"weekly_hour"`     // hour of day, 0-23
	MonthlyDay    int  `json:"monthly_day"`     // day of month, 1-28
	MonthlyHour   int  `json:"monthly_hour"`    // hour of day, 0-23
	Enabled       bool `json:"enabled"`
}

// PushConfig contains delivery channel configuration
type PushConfig struct {
	SendBuffer   int  `json:"send_buffer"`   // per-session outbound buffer
	WriteTimeout int  `json:"write_timeout"` // seconds
	Enabled      bool `json:"enabled"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `json:"level"`       // debug, info, warn, error
	Format     string `json:"format"`      // json, text
	OutputPath string `json:"output_path"` // stdout, stderr, or file path
}

// LoadConfig reads the environment (optionally seeded from a .env file) into
// a Config with sensible defaults for local development.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", ""),
			Port:         getEnv("SERVER_PORT", "7005"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			Environment:  getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("MYSQL_HOST", "localhost"),
			Port:         getEnv("MYSQL_PORT", "3306"),
			Username:     getEnv("MYSQL_USERNAME", "bizdesk"),
			Password:     getEnv("MYSQL_PASSWORD", "bizdesk123"),
			DatabaseName: getEnv("MYSQL_DATABASE", "bizdesk"),
			MaxOpenConns: getEnvAsInt("MYSQL_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("MYSQL_MAX_IDLE_CONNS", 5),
		},
		Scheduler: SchedulerConfig{
			DailyHour:     getEnvAsInt("STATS_DAILY_HOUR", 23),
			WeeklyWeekday: getEnvAsInt("STATS_WEEKLY_WEEKDAY", int(time.Sunday)),
			WeeklyHour:    getEnvAsInt("STATS_WEEKLY_HOUR", 23),
			MonthlyDay:    clampMonthlyDay(getEnvAsInt("STATS_MONTHLY_DAY", 1)),
			MonthlyHour:   getEnvAsInt("STATS_MONTHLY_HOUR", 6),
			Enabled:       getEnv("STATS_ENABLED", "true") == "true",
		},
		Push: PushConfig{
			SendBuffer:   getEnvAsInt("PUSH_SEND_BUFFER", 64),
			WriteTimeout: getEnvAsInt("PUSH_WRITE_TIMEOUT", 5),
			Enabled:      getEnv("PUSH_ENABLED", "true") == "true",
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "text"),
			OutputPath: getEnv("LOG_OUTPUT", "stdout"),
		},
	}
}

func (cfg *Config) DSN() string {
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "3306"
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

// clampMonthlyDay keeps the firing day inside 1-28 so every month has one
// and time.Date never normalizes it into the next month.
func clampMonthlyDay(day int) int {
	if day < 1 {
		return 1
	}
	if day > 28 {
		return 28
	}
	return day
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
