package reporting

import (
	"context"
	"fmt"

	"github.com/spacesedan/firebird/internal/models"
)

type publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// KafkaReporter publishes every report keyed by campaign id, so reports for
// one campaign stay ordered within a partition.
type KafkaReporter struct {
	producer publisher
	topic    string
	encoding Encoding
}

func NewKafkaReporter(producer publisher, topic string, encoding Encoding) *KafkaReporter {
	return &KafkaReporter{producer: producer, topic: topic, encoding: encoding}
}

func (k *KafkaReporter) Report(ctx context.Context, report models.CampaignReport) error {
	value, err := EncodeReport(report, k.encoding)
	if err != nil {
		return err
	}
	if err := k.producer.Publish(ctx, k.topic, []byte(report.CampaignID), value); err != nil {
		return fmt.Errorf("[KafkaReporter] failed to publish report for %s: %w", report.CampaignID, err)
	}
	return nil
}
