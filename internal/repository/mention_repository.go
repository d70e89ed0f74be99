package repository

import (
    "database/sql"
    "time"

    "github.com/unclebandit/xmarketing-bot/internal/model"
)

type MentionRepositoryInterface interface {
    Create(m *model.Mention) error
    Exists(mentionID string) (bool, error)
    List(limit int) ([]model.Mention, error)
}

type MentionRepository struct {
    DB *sql.DB
}

// Create records a processed mention, successfully replied or not. mention_id is the
// primary key, so a racing second insert of the same mention fails loudly instead of
// double-counting.
func (r *MentionRepository) Create(m *model.Mention) error {
    if m.RepliedAt.IsZero() {
        m.RepliedAt = time.Now().UTC()
    }
    query := `
        INSERT INTO mentions (mention_id, author_username, mention_text, reply_text, reply_id, replied_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
    _, err := r.DB.Exec(query, m.MentionID, m.AuthorUsername, m.MentionText, m.ReplyText, m.ReplyID, m.RepliedAt)
    return err
}

// Exists is the dedup check run before any mention is processed.
func (r *MentionRepository) Exists(mentionID string) (bool, error) {
    query := `SELECT 1 FROM mentions WHERE mention_id=$1 LIMIT 1`
    var tmp int
    err := r.DB.QueryRow(query, mentionID).Scan(&tmp)
    if err != nil {
        if err == sql.ErrNoRows {
            return false, nil
        }
        return false, err
    }
    return true, nil
}

func (r *MentionRepository) List(limit int) ([]model.Mention, error) {
    if limit < 1 {
        limit = 20
    }
    query := `
        SELECT mention_id, author_username, mention_text, reply_text, reply_id, replied_at
        FROM mentions ORDER BY replied_at DESC LIMIT $1
    `
    rows, err := r.DB.Query(query, limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    mentions := []model.Mention{}
    for rows.Next() {
        var m model.Mention
        if err := rows.Scan(&m.MentionID, &m.AuthorUsername, &m.MentionText, &m.ReplyText, &m.ReplyID, &m.RepliedAt); err != nil {
            return nil, err
        }
        mentions = append(mentions, m)
    }
    return mentions, rows.Err()
}

var _ MentionRepositoryInterface = (*MentionRepository)(nil)
