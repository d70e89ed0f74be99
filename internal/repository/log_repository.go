package repository

import (
    "database/sql"

    "github.com/unclebandit/xmarketing-bot/internal/model"
)

type LogRepositoryInterface interface {
    Insert(message string, level model.LogLevel) error
    List(limit int) ([]model.LogRecord, error)
}

type LogRepository struct {
    DB *sql.DB
}

func (r *LogRepository) Insert(message string, level model.LogLevel) error {
    query := `INSERT INTO logs (message, level) VALUES ($1, $2)`
    _, err := r.DB.Exec(query, message, level)
    return err
}

func (r *LogRepository) List(limit int) ([]model.LogRecord, error) {
    if limit < 1 {
        limit = 50
    }
    query := `
        SELECT id, message, level, created_at
        FROM logs ORDER BY id DESC LIMIT $1
    `
    rows, err := r.DB.Query(query, limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    records := []model.LogRecord{}
    for rows.Next() {
        var rec model.LogRecord
        if err := rows.Scan(&rec.ID, &rec.Message, &rec.Level, &rec.CreatedAt); err != nil {
            return nil, err
        }
        records = append(records, rec)
    }
    return records, rows.Err()
}

var _ LogRepositoryInterface = (*LogRepository)(nil)
