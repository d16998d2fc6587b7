package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPServer
	MySQL
	Redis
	JWT
	Kafka
	SMTP
	Outbox
	Admin
}

type HTTPServer struct {
	BindAddress     string        `env:"BIND_ADDRESS" env-default:"0.0.0.0"`
	BindPort        string        `env:"BIND_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"5s"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" env-default:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" env-default:"10s"`
	AllowOrigins    []string      `env:"CORS_ALLOW_ORIGINS" env-separator:"," env-default:"*"`
}

type MySQL struct {
	DSN string `env:"MYSQL_DSN" env-default:"user:password@tcp(127.0.0.1:3306)/campus_qa?charset=utf8mb4&parseTime=True&loc=Local"`
	// AutoMigrate 开发阶段建表
	AutoMigrate bool `env:"MYSQL_AUTO_MIGRATE" env-default:"true"`
}

type Redis struct {
	Addr     string `env:"REDIS_ADDR" env-default:"127.0.0.1:6379"`
	Password string `env:"REDIS_PASSWORD" env-default:""`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

type JWT struct {
	AccessSecret  string        `env:"JWT_ACCESS_SECRET" env-default:"secret-key"`
	RefreshSecret string        `env:"JWT_REFRESH_SECRET" env-default:"refresh-key"`
	AccessTTL     time.Duration `env:"JWT_ACCESS_TTL" env-default:"30m"`
	RefreshTTL    time.Duration `env:"JWT_REFRESH_TTL" env-default:"24h"`
}

// Kafka Brokers 为空时不投递到 kafka
type Kafka struct {
	Brokers []string `env:"KAFKA_BROKERS" env-separator:","`
	Topic   string   `env:"KAFKA_TOPIC" env-default:"forum.moderation"`
}

// SMTP Host 为空时不发送通知邮件
type SMTP struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" env-default:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM" env-default:"NoReply <no-reply@example.com>"`
}

type Outbox struct {
	BatchSize  int           `env:"OUTBOX_BATCH_SIZE" env-default:"200"`
	Interval   time.Duration `env:"OUTBOX_INTERVAL" env-default:"1s"`
	MaxRetries int           `env:"OUTBOX_MAX_RETRIES" env-default:"5"`
}

// Admin 启动时若用户不存在则创建管理员账号，Username 为空时跳过
type Admin struct {
	Username string `env:"ADMIN_USERNAME"`
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

// New 先加载可选的 .env 文件，再读取环境变量
func New(env string) (*Config, error) {
	conf := &Config{}

	if env != "" {
		if err := godotenv.Overload(env); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("godotenv.Overload: %v", err)
		}
	}

	if err := cleanenv.ReadEnv(conf); err != nil {
		return nil, fmt.Errorf("cleanenv.ReadEnv: %v", err)
	}

	return conf, nil
}
