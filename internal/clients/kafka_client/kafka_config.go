package kafka_client

type KafkaConfig struct {
	Broker          string
	Topic           string
	TransactionalID string
}

func (c KafkaConfig) WithDefaults() KafkaConfig {
	if c.Broker == "" {
		c.Broker = DEFAULT_BROKER
	}
	if c.Topic == "" {
		c.Topic = KAFKA_TOPIC_CAMPAIGN_REPORTS
	}
	if c.TransactionalID == "" {
		c.TransactionalID = "firebird-report-producer-1"
	}
	return c
}
