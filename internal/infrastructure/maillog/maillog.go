package maillog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Logger is the development stand-in for a mail transport: delivery is
// redefined as durably appending a timestamped record to a local log file.
// The file is opened, appended and closed per call; no handle is retained.
type Logger struct {
	path string
}

func New(path string) *Logger {
	return &Logger{path: path}
}

func (l *Logger) Send(to, subject, body string) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o777); err != nil {
		return fmt.Errorf("create email log directory: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open email log: %w", err)
	}
	defer f.Close()

	entry := fmt.Sprintf("[%s] To: %s\nSubject: %s\nMessage: %s\n\n",
		time.Now().UTC().Format("2006-01-02 15:04:05"), to, subject, body)
	if _, err := f.WriteString(entry); err != nil {
		return fmt.Errorf("write email log: %w", err)
	}
	return nil
}
