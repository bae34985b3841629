package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/spacesedan/firebird/config"
	"github.com/spacesedan/firebird/internal/clients"
	"github.com/spacesedan/firebird/internal/clients/kafka_client"
	"github.com/spacesedan/firebird/internal/db"
	"github.com/spacesedan/firebird/internal/feed"
	"github.com/spacesedan/firebird/internal/models"
	"github.com/spacesedan/firebird/internal/monitoring"
	"github.com/spacesedan/firebird/internal/processing"
	"github.com/spacesedan/firebird/internal/reporting"
	"github.com/spacesedan/firebird/internal/sentiment"
)

const (
	classifierRequestTimeout = 60 * time.Second
	feedRequestTimeout       = 30 * time.Second
)

type campaignStore interface {
	processing.CampaignStore
	db.CampaignWriter
	monitoring.Pinger
}

type tallyStore interface {
	StoreCampaignTally(ctx context.Context, report models.CampaignReport) error
}

// closers runs cleanups in reverse order of registration.
type closers []func()

func (c *closers) add(fn func()) {
	*c = append(*c, fn)
}

func (c closers) Close() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]()
	}
}

func openStore(ctx context.Context, cfg config.Config, cleanup *closers) (campaignStore, error) {
	switch cfg.StoreBackend {
	case "postgres":
		pg, err := clients.NewPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		cleanup.add(pg.Close)

		store := db.NewPostgresCampaignStore(pg.DB)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return store, nil

	case "sqlite":
		store, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		cleanup.add(func() { _ = store.Close() })
		return store, nil

	default:
		awsCfg, err := clients.NewAWSConfig(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		client := clients.NewDynamoDBClient(awsCfg, cfg.AWSEndpoint)
		return db.NewDynamoCampaignStore(client, cfg.CampaignsTable, cfg.CampaignTalliesTable), nil
	}
}

func openClassifier(cfg config.Config, cleanup *closers) (processing.SentimentClassifier, error) {
	switch cfg.ClassifierBackend {
	case "huggingface":
		client := clients.NewHuggingFaceClient(cfg.HFInferenceEndpoint, sentiment.InferenceModelName(cfg.ModelName), cfg.HFAPIToken, classifierRequestTimeout)
		return sentiment.NewHuggingFaceClassifier(client, cfg.ModelBatchSize), nil

	case "openai":
		client, err := clients.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		if err != nil {
			return nil, err
		}
		return sentiment.NewOpenAIClassifier(client, cfg.ModelBatchSize), nil

	case "vader":
		return sentiment.NewVaderClassifier(), nil

	default:
		modelPath, err := sentiment.EnsureModel(cfg.ModelName, cfg.ModelOnnxFile, cfg.ModelCacheDir)
		if err != nil {
			return nil, err
		}
		classifier, err := sentiment.NewHugotClassifier(modelPath, cfg.ModelOnnxFile, cfg.ModelBatchSize)
		if err != nil {
			return nil, err
		}
		cleanup.add(func() {
			if err := classifier.Close(); err != nil {
				slog.Warn("[Main] Failed to close classifier", slog.String("error", err.Error()))
			}
		})
		return classifier, nil
	}
}

func openFeed(ctx context.Context, cfg config.Config) (processing.PostFeed, error) {
	if err := cfg.RequireFeedCredentials(); err != nil {
		return nil, err
	}
	client, err := clients.NewTwitterClient(ctx, clients.TwitterCredentials{
		BearerToken:  cfg.TwitterBearerToken,
		ClientID:     cfg.TwitterClientID,
		ClientSecret: cfg.TwitterClientSecret,
		Host:         cfg.TwitterAPIHost,
	}, feedRequestTimeout)
	if err != nil {
		return nil, err
	}
	return feed.NewTwitterFeed(client), nil
}

// openReporters always prints to out; every other sink is enabled by its
// connection setting.
func openReporters(ctx context.Context, cfg config.Config, out io.Writer, store campaignStore, cleanup *closers) (*reporting.MultiReporter, []monitoring.Check, error) {
	reporter := reporting.NewMultiReporter(reporting.NewLogReporter(out))
	var checks []monitoring.Check

	if cfg.KafkaBroker != "" {
		kafkaCfg := kafka_client.KafkaConfig{Broker: cfg.KafkaBroker, Topic: cfg.KafkaReportTopic}.WithDefaults()
		producer, err := kafka_client.NewProducer(ctx, kafkaCfg)
		if err != nil {
			return nil, nil, err
		}
		cleanup.add(producer.Close)
		reporter.Add(reporting.NewKafkaReporter(producer, kafkaCfg.Topic, cfg.Encoding()))
	}

	if cfg.ValkeyInitAddress != "" {
		valkeyClient, err := clients.NewValkeyClient(clients.ValkeyConfig{
			Address:  cfg.ValkeyInitAddress,
			Password: cfg.ValkeyPassword,
			TLS:      cfg.ValkeyTLS,
		})
		if err != nil {
			return nil, nil, err
		}
		cleanup.add(valkeyClient.Close)
		reporter.Add(reporting.NewValkeyReporter(valkeyClient, reporting.DEFAULT_TALLY_TTL))
		checks = append(checks, monitoring.Check{Name: "valkey", Pinger: valkeyClient})
	}

	if cfg.NATSURL != "" {
		nc, err := clients.NewNATSConn(cfg.NATSURL)
		if err != nil {
			return nil, nil, err
		}
		cleanup.add(func() { _ = nc.Drain() })
		reporter.Add(reporting.NewNATSReporter(nc, cfg.NATSReportSubject))
		checks = append(checks, monitoring.Check{Name: "nats", Pinger: natsPinger(nc)})
	}

	if cfg.CampaignTalliesTable != "" {
		tallies, ok := store.(tallyStore)
		if !ok {
			return nil, nil, fmt.Errorf("CAMPAIGN_TALLIES_TABLE requires the dynamodb store, got %s", cfg.StoreBackend)
		}
		reporter.Add(reporting.NewTallyStoreReporter(tallies))
	}

	return reporter, checks, nil
}

func natsPinger(nc *nats.Conn) monitoring.PingFunc {
	return func(ctx context.Context) error {
		if !nc.IsConnected() {
			return errors.New("not connected")
		}
		return nc.FlushWithContext(ctx)
	}
}
