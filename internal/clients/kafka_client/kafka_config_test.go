package kafka_client

import "testing"

func TestKafkaConfigWithDefaults(t *testing.T) {
	cfg := KafkaConfig{}.WithDefaults()
	if cfg.Broker != DEFAULT_BROKER || cfg.Topic != KAFKA_TOPIC_CAMPAIGN_REPORTS || cfg.TransactionalID == "" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}

	custom := KafkaConfig{Broker: "kafka:9092", Topic: "reports"}.WithDefaults()
	if custom.Broker != "kafka:9092" || custom.Topic != "reports" {
		t.Fatalf("expected explicit values to win, got %+v", custom)
	}
}
