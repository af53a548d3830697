package providers

import "time"

const (
	// shutdownTimeout is the maximum time to wait for graceful shutdown of services.
	shutdownTimeout = 30 * time.Second

	// lockFileName guards the data directory against a second bot process.
	lockFileName = "mediabot.lock"
)
