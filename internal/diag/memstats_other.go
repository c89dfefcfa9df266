//go:build !windows

package diag

import (
	"log/slog"
	"time"
)

// StartMemLogger is a no-op outside Windows: there is no portable RSS
// query in this repo's dependency set, and the goroutine logger already
// covers Go-heap-driven growth on every platform.
func StartMemLogger(interval time.Duration, logger *slog.Logger) {}
