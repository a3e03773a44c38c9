package kafka_client

import "time"

const (
	KAFKA_TOPIC_ANALYSIS_REQUESTS = "swot-requests" // {"product_name": ...} JSON requests
	KAFKA_TOPIC_ANALYSIS_RESULTS  = "swot-results"  // completed analyses, protobuf encoded
)

const (
	CONTENT_TYPE_HEADER   = "content-type"
	CONTENT_TYPE_PROTOBUF = "application/x-protobuf"
)

const (
	MAX_RETRIES   = 5
	RETRY_DELAY   = 2 * time.Second
	POLL_TIMEOUT  = 500 * time.Millisecond
	FLUSH_TIMEOUT = 5000 // ms
)
