package export

import (
	"log/slog"
	"os"
	"time"
)

// Temp file cleanup is retried briefly in case another process (e.g. a
// virus scanner on Windows) transiently holds the file open. After the
// attempts are exhausted the failure is logged and swallowed; leftover temp
// files never fail an export.
var (
	cleanupAttempts = 5
	cleanupBackoff  = 100 * time.Millisecond
)

// removeWithRetry deletes path with bounded retries and backoff.
func removeWithRetry(path string) {
	var err error
	for i := 0; i < cleanupAttempts; i++ {
		err = os.Remove(path)
		if err == nil || os.IsNotExist(err) {
			return
		}
		time.Sleep(cleanupBackoff)
	}
	slog.Warn("temp file cleanup failed", "path", path, "error", err)
}
