package clients

import "time"

const (
	DEFAULT_TIMEOUT = 15 * time.Second
	USER_AGENT      = "swotflow-client/1.0 (+https://github.com/spacesedan/swotflow)"
	PREVIEW_RUNES   = 50
)
