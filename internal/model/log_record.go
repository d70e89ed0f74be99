// internal/model/log_record.go
package model

import "time"

type LogLevel string

const (
    LevelInfo    LogLevel = "INFO"
    LevelWarning LogLevel = "WARNING"
    LevelError   LogLevel = "ERROR"
)

type LogRecord struct {
    ID        int       `db:"id" json:"id"`
    Message   string    `db:"message" json:"message"`
    Level     LogLevel  `db:"level" json:"level"`
    CreatedAt time.Time `db:"created_at" json:"created_at"`
}
