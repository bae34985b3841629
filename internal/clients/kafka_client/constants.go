package kafka_client

const (
	KAFKA_TOPIC_CAMPAIGN_REPORTS = "campaign-reports" // one message per evaluated or failed campaign
	DEFAULT_BROKER               = "localhost:29092"
)

const (
	MAX_RETRIES      = 3
	FLUSH_TIMEOUT_MS = 5000
)
