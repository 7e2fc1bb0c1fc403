package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type CreditConfig struct {
	Env          string `yaml:"env" env:"CREDIT_ENV" env-default:"local"`
	HTTPServer   `yaml:"http_server"`
	GRPCServer   `yaml:"grpc_server"`
	CreditDB     `yaml:"credit_db"`
	LogConfig    `yaml:"log_config"`
	KafkaService `yaml:"kafka_service"`
	DashScope    `yaml:"dashscope"`
	ZPay         `yaml:"zpay"`
	Auth         `yaml:"auth"`
	Credits      `yaml:"credits"`
}

type HTTPServer struct {
	Host            string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"9090"`
}

type CreditDB struct {
	Driver         string `yaml:"driver" env:"CREDIT_DB_DRIVER" env-default:"postgres"`
	Dsn            string `yaml:"dsn" env:"CREDIT_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path" env:"CREDIT_DB_MIGRATIONS" env-default:"migrations"`
	AutoMigrate    bool   `yaml:"auto_migrate" env:"CREDIT_DB_AUTO_MIGRATE"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
	LogOutput string `yaml:"log_output" env:"LOG_OUTPUT"`
}

type KafkaService struct {
	Enabled         bool   `yaml:"enabled" env:"KAFKA_ENABLED"`
	Host            string `yaml:"host" env:"KAFKA_HOST" env-default:"localhost"`
	Port            string `yaml:"port" env:"KAFKA_PORT" env-default:"9092"`
	PaymentTopic    string `yaml:"payment_topic" env-default:"payment-events"`
	GenerationTopic string `yaml:"generation_topic" env-default:"generation-events"`
}

type DashScope struct {
	APIKey          string        `yaml:"api_key" env:"DASHSCOPE_API_KEY"`
	BaseURL         string        `yaml:"base_url" env:"DASHSCOPE_BASE_URL" env-default:"https://dashscope.aliyuncs.com"`
	Model           string        `yaml:"model" env-default:"wanx2.1-t2i-plus"`
	Size            string        `yaml:"size" env-default:"1024*1024"`
	N               int           `yaml:"n" env-default:"4"`
	PollInterval    time.Duration `yaml:"poll_interval" env-default:"1s"`
	MaxPollAttempts int           `yaml:"max_poll_attempts" env-default:"60"`
	Timeout         time.Duration `yaml:"timeout" env-default:"30s"`
}

type ZPay struct {
	PID        string `yaml:"pid" env:"ZPAY_PID"`
	Key        string `yaml:"key" env:"ZPAY_KEY"`
	SubmitURL  string `yaml:"submit_url" env:"ZPAY_SUBMIT_URL" env-default:"https://zpayz.cn/submit.php"`
	AppBaseURL string `yaml:"app_base_url" env:"APP_BASE_URL" env-default:"http://localhost:3000"`
}

type Auth struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET"`
}

type Credits struct {
	InitialGrant    int64   `yaml:"initial_grant" env-default:"5"`
	AmountTolerance float64 `yaml:"amount_tolerance" env-default:"0.01"`
	StoreRetries    int     `yaml:"store_retries" env-default:"3"`
}

func Load(configPath string) (*CreditConfig, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	// YAML to struct object
	var cfg CreditConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *CreditConfig) Validate() error {
	var errs []error
	if c.CreditDB.Dsn == "" {
		errs = append(errs, errors.New("credit_db.dsn is required"))
	}
	if c.CreditDB.Driver != "postgres" && c.CreditDB.Driver != "sqlite" {
		errs = append(errs, fmt.Errorf("credit_db.driver %q is not supported", c.CreditDB.Driver))
	}
	if c.ZPay.PID == "" || c.ZPay.Key == "" {
		errs = append(errs, errors.New("zpay.pid and zpay.key are required"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	if c.DashScope.PollInterval <= 0 || c.DashScope.MaxPollAttempts <= 0 {
		errs = append(errs, errors.New("dashscope poll interval and attempts must be positive"))
	}
	if c.Credits.InitialGrant < 0 {
		errs = append(errs, errors.New("credits.initial_grant must not be negative"))
	}
	if c.Credits.StoreRetries <= 0 {
		errs = append(errs, errors.New("credits.store_retries must be positive"))
	}
	return errors.Join(errs...)
}
