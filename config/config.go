package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v11"

	"github.com/spacesedan/firebird/internal/processing"
	"github.com/spacesedan/firebird/internal/reporting"
	"github.com/spacesedan/firebird/internal/sentiment"
)

type Config struct {
	AppEnv   string `env:"APP_ENV"   envDefault:"dev"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	StoreBackend         string `env:"STORE_BACKEND"          envDefault:"dynamodb"`
	CampaignsTable       string `env:"CAMPAIGNS_TABLE"        envDefault:"Campaigns"`
	CampaignTalliesTable string `env:"CAMPAIGN_TALLIES_TABLE"`
	AWSEndpoint          string `env:"AWS_ENDPOINT"`
	AWSRegion            string `env:"AWS_REGION"             envDefault:"us-west-2"`
	PostgresDSN          string `env:"POSTGRES_DSN"`
	SQLitePath           string `env:"SQLITE_PATH"`

	TwitterBearerToken  string `env:"TWITTER_BEARER_TOKEN"`
	TwitterClientID     string `env:"TWITTER_CLIENT_ID"`
	TwitterClientSecret string `env:"TWITTER_CLIENT_SECRET"`
	TwitterAPIHost      string `env:"TWITTER_API_HOST"`

	ClassifierBackend   string `env:"CLASSIFIER_BACKEND"    envDefault:"hugot"`
	ModelName           string `env:"MODEL_NAME"            envDefault:"Xenova/bert-base-multilingual-uncased-sentiment"`
	ModelOnnxFile       string `env:"MODEL_ONNX_FILE"`
	ModelCacheDir       string `env:"MODEL_CACHE_DIR"`
	ModelBatchSize      int    `env:"MODEL_BATCH_SIZE"      envDefault:"32"`
	HFAPIToken          string `env:"HF_API_TOKEN"`
	HFInferenceEndpoint string `env:"HF_INFERENCE_ENDPOINT"`
	OpenAIAPIKey        string `env:"OPENAI_API_KEY"`
	OpenAIModel         string `env:"OPENAI_MODEL"`

	WindowPolicy  string        `env:"WINDOW_POLICY"  envDefault:"expire"`
	SinceTruncate time.Duration `env:"SINCE_TRUNCATE"`
	RunInterval   time.Duration `env:"RUN_INTERVAL"`

	KafkaBroker       string `env:"KAFKA_BROKER"`
	KafkaReportTopic  string `env:"KAFKA_REPORT_TOPIC"  envDefault:"campaign-reports"`
	ReportEncoding    string `env:"REPORT_ENCODING"     envDefault:"json"`
	ValkeyInitAddress string `env:"VALKEY_INIT_ADDRESS"`
	ValkeyPassword    string `env:"VALKEY_PASSWORD"`
	ValkeyTLS         bool   `env:"VALKEY_TLS"`
	NATSURL           string `env:"NATS_URL"`
	NATSReportSubject string `env:"NATS_REPORT_SUBJECT"`
}

// Load parses the environment and fills in the XDG based defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.ModelOnnxFile == "" && cfg.ModelName == sentiment.DEFAULT_MODEL_NAME {
		cfg.ModelOnnxFile = sentiment.DEFAULT_ONNX_FILE
	}
	if cfg.ModelCacheDir == "" {
		cfg.ModelCacheDir = filepath.Join(xdg.CacheHome, "firebird", "models")
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = filepath.Join(xdg.DataHome, "firebird", "campaigns.db")
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error

	switch c.StoreBackend {
	case "dynamodb", "sqlite":
	case "postgres":
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("POSTGRES_DSN is required for the postgres store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}

	switch c.ClassifierBackend {
	case "hugot", "huggingface", "vader":
	case "openai":
		if c.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required for the openai classifier"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown CLASSIFIER_BACKEND %q", c.ClassifierBackend))
	}

	if c.ModelBatchSize <= 0 {
		errs = append(errs, fmt.Errorf("MODEL_BATCH_SIZE must be positive, got %d", c.ModelBatchSize))
	}
	if c.SinceTruncate < 0 || c.RunInterval < 0 {
		errs = append(errs, errors.New("SINCE_TRUNCATE and RUN_INTERVAL must not be negative"))
	}
	if _, err := processing.ParseWindowPolicy(c.WindowPolicy); err != nil {
		errs = append(errs, err)
	}
	if _, err := reporting.ParseEncoding(c.ReportEncoding); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// RequireFeedCredentials is checked only by commands that search posts.
func (c Config) RequireFeedCredentials() error {
	if c.TwitterBearerToken != "" {
		return nil
	}
	if c.TwitterClientID != "" && c.TwitterClientSecret != "" {
		return nil
	}
	return errors.New("TWITTER_BEARER_TOKEN or TWITTER_CLIENT_ID and TWITTER_CLIENT_SECRET are required")
}

func (c Config) EvaluatorOptions() processing.Options {
	policy, _ := processing.ParseWindowPolicy(c.WindowPolicy)
	return processing.Options{
		WindowPolicy:  policy,
		SinceTruncate: c.SinceTruncate,
	}
}

func (c Config) Encoding() reporting.Encoding {
	encoding, _ := reporting.ParseEncoding(c.ReportEncoding)
	return encoding
}
