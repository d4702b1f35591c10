package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config 应用配置
type Config struct {
	Port     int
	MongoURI string
	MongoDB  string
	Debug    bool
	LogLevel string

	JWTSecret      string
	JWTExpireHours int

	CORSOrigins    []string
	// 可信反向代理，为空时不信任 X-Forwarded-For
	TrustedProxies []string

	// 系统管理员（首次启动或首个公开线索时创建）
	AdminName     string
	AdminEmail    string
	AdminPassword string

	// 可选组件，未配置时禁用
	RedisURL  string
	AMQPURL   string
	SentryDSN string
	SMTP      SMTPConfig

	PhoneRegion         string
	PublicRatePerMinute int
	PublicRateBurst     int
}

// SMTPConfig 邮件发送配置
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled SMTP 是否已配置
func (s SMTPConfig) Enabled() bool {
	return s.Host != ""
}

// LoadConfig 从环境变量加载配置（存在 .env 时先加载）
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:           getEnvInt("PORT", 5000),
		MongoURI:       getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDB:        getEnv("MONGO_DB", "crm"),
		Debug:          getEnv("GIN_MODE", "debug") == "debug",
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		JWTSecret:      getEnv("JWT_SECRET", "your-secret-key"), // 实际环境应替换为安全密钥
		JWTExpireHours: getEnvInt("JWT_EXPIRES_HOURS", 24*30),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		TrustedProxies: splitList(os.Getenv("TRUSTED_PROXIES")),
		AdminName:      getEnv("ADMIN_NAME", "System Admin"),
		AdminEmail:     getEnv("ADMIN_EMAIL", "admin@system.com"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", "systempassword123"),
		RedisURL:       os.Getenv("REDIS_URL"),
		AMQPURL:        os.Getenv("AMQP_URL"),
		SentryDSN:      os.Getenv("SENTRY_DSN"),
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvInt("SMTP_PORT", 587),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("SMTP_FROM", "no-reply@crm.local"),
		},
		PhoneRegion:         getEnv("PHONE_REGION", "US"),
		PublicRatePerMinute: getEnvInt("PUBLIC_RATE_PER_MINUTE", 30),
		PublicRateBurst:     getEnvInt("PUBLIC_RATE_BURST", 5),
	}
}

// getEnv 获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
