package logging

import (
	"fmt"
	"path/filepath"
	"time"
)

// LogFilePath names a session log file: <prefix>.<yyyymmdd_hhmmss>.log.
func LogFilePath(logsDir, prefix string, sessionStart time.Time) string {
	return filepath.Join(
		logsDir,
		fmt.Sprintf("%s.%s.log", prefix, sessionStart.Format("20060102_150405")),
	)
}
