package models

import "time"

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	ConnectTimeout  time.Duration
	SlowQuery       time.Duration
}

type RabbitMQConfig struct {
	URL      string
	Exchange string
	Queue    string
}

type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	RateLimitRPS int
	TrustProxy   bool
}

type SupabaseConfig struct {
	JWTSecret string
}

type MapsConfig struct {
	APIKey  string
	Timeout time.Duration
}

type SMSConfig struct {
	BaseURL  string
	APIKey   string
	SenderID string
	Timeout  time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type CacheConfig struct {
	MaxSize int
	TTL     time.Duration
}

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	RabbitMQ RabbitMQConfig
	Redis    RedisConfig
	Supabase SupabaseConfig
	Maps     MapsConfig
	SMS      SMSConfig
	SMTP     SMTPConfig
	Cache    CacheConfig
}
