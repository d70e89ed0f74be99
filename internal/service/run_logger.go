package service

import (
    "fmt"
    "log"

    "github.com/unclebandit/xmarketing-bot/internal/model"
    "github.com/unclebandit/xmarketing-bot/internal/repository"
)

// AlertSink receives fatal-run alerts (Telegram in production, nil to disable).
type AlertSink interface {
    Alert(message string)
}

// RunLogger mirrors every pipeline log line into the logs table so a run leaves an
// audit trail next to the posts and mentions it produced. A failed insert is logged
// and dropped: the logs table must never take down the run it describes.
type RunLogger struct {
    Logs   repository.LogRepositoryInterface
    Alerts AlertSink
}

func (l *RunLogger) Info(format string, args ...interface{}) {
    l.write(model.LevelInfo, "", format, args...)
}

func (l *RunLogger) Warning(format string, args ...interface{}) {
    l.write(model.LevelWarning, "⚠️ ", format, args...)
}

func (l *RunLogger) Error(format string, args ...interface{}) {
    msg := l.write(model.LevelError, "❌ ", format, args...)
    if l != nil && l.Alerts != nil {
        l.Alerts.Alert(msg)
    }
}

func (l *RunLogger) write(level model.LogLevel, prefix, format string, args ...interface{}) string {
    msg := fmt.Sprintf(format, args...)
    log.Println(prefix + msg)

    if l == nil || l.Logs == nil {
        return msg
    }
    if err := l.Logs.Insert(msg, level); err != nil {
        log.Println("⚠️ failed to write log record:", err)
    }
    return msg
}
