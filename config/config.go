package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/qs3c/subtrack_go_server/internal/reminder"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Email    EmailConfig    `mapstructure:"email"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Temporal TemporalConfig `mapstructure:"temporal"`
	Reminder ReminderConfig `mapstructure:"reminder"`
	Cron     CronConfig     `mapstructure:"cron"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type EmailConfig struct {
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
}

// ReminderConfig 续费提醒配置，修改只影响之后启动的流程
type ReminderConfig struct {
	LeadDays           []int  `mapstructure:"lead_days"`            // 续费前第几天提醒，严格递减
	Timezone           string `mapstructure:"timezone"`             // 按哪个时区比较日历日期
	Ledger             string `mapstructure:"ledger"`               // redis / database
	MarkerTTLHours     int    `mapstructure:"marker_ttl_hours"`     // redis 完成标记过期时间
	UpcomingWindowDays int    `mapstructure:"upcoming_window_days"` // 即将续费列表的时间窗口
}

type CronConfig struct {
	ExpirySpec string `mapstructure:"expiry_spec"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console / json
}

const (
	LedgerRedis    = "redis"
	LedgerDatabase = "database"
)

func Load(configPath string) (*Config, error) {
	// .env 仅用于本地开发，不存在时忽略
	_ = godotenv.Load()

	// 优先尝试读取 config.local.yaml（包含真实密钥，不提交到git）
	dir := filepath.Dir(configPath)
	localConfigPath := filepath.Join(dir, "config.local.yaml")
	if _, err := os.Stat(localConfigPath); err == nil {
		configPath = localConfigPath
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// 环境变量覆盖
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5500)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("jwt.expire_hours", 24)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "subscription-reminders")
	v.SetDefault("reminder.lead_days", []int(reminder.DefaultLeadTimes))
	v.SetDefault("reminder.timezone", "UTC")
	v.SetDefault("reminder.ledger", LedgerRedis)
	v.SetDefault("reminder.marker_ttl_hours", 24*400)
	v.SetDefault("reminder.upcoming_window_days", 7)
	v.SetDefault("cron.expiry_spec", "0 1 * * *")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Validate 校验启动前必须正确的配置项
func (c *Config) Validate() error {
	if err := c.Reminder.LeadTimes().Validate(); err != nil {
		return err
	}
	if _, err := c.Reminder.Location(); err != nil {
		return fmt.Errorf("invalid reminder timezone %q: %w", c.Reminder.Timezone, err)
	}
	switch c.Reminder.Ledger {
	case LedgerRedis, LedgerDatabase:
	default:
		return fmt.Errorf("unknown reminder ledger %q", c.Reminder.Ledger)
	}
	return nil
}

func (c *ReminderConfig) LeadTimes() reminder.LeadTimes {
	return reminder.LeadTimes(c.LeadDays)
}

func (c *ReminderConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

func (c *ReminderConfig) MarkerTTL() time.Duration {
	return time.Duration(c.MarkerTTLHours) * time.Hour
}
