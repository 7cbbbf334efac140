package progress

import (
	"fmt"
	"log/slog"
	"os"
	"time"
)

// TimestampLayout renders as e.g. 2023-Sep-08-09:16:35.
const TimestampLayout = "2006-Jan-02-15:04:05"

// Logger appends one timestamped line per message to a file that is never
// truncated or rotated.
type Logger struct {
	path string
	now  func() time.Time
}

// New creates a Logger writing to path.
func New(path string) *Logger {
	return &Logger{path: path, now: time.Now}
}

// Log appends "<timestamp> : <message> " and a newline. The file is opened
// and closed on every call.
func (l *Logger) Log(message string) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open progress log %s: %w", l.path, err)
	}

	line := fmt.Sprintf("%s : %s \n", l.now().Format(TimestampLayout), message)
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return fmt.Errorf("failed to write progress log %s: %w", l.path, err)
	}

	slog.Info(message)
	return f.Close()
}
