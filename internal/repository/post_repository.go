package repository

import (
    "database/sql"
    "time"

    "github.com/unclebandit/xmarketing-bot/internal/model"
)

type PostRepositoryInterface interface {
    Create(p *model.Post) error
    List(limit int) ([]model.Post, error)
}

type PostRepository struct {
    DB *sql.DB
}

// Create inserts a completed publication attempt. Rows are append-only.
func (r *PostRepository) Create(p *model.Post) error {
    if p.PostedAt.IsZero() {
        p.PostedAt = time.Now().UTC()
    }
    query := `
        INSERT INTO posts (campaign_id, content, x_post_id, posted_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
    return r.DB.QueryRow(query, p.CampaignID, p.Content, p.XPostID, p.PostedAt).Scan(&p.ID)
}

func (r *PostRepository) List(limit int) ([]model.Post, error) {
    if limit < 1 {
        limit = 20
    }
    query := `
        SELECT id, campaign_id, content, x_post_id, posted_at
        FROM posts ORDER BY posted_at DESC LIMIT $1
    `
    rows, err := r.DB.Query(query, limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    posts := []model.Post{}
    for rows.Next() {
        var p model.Post
        if err := rows.Scan(&p.ID, &p.CampaignID, &p.Content, &p.XPostID, &p.PostedAt); err != nil {
            return nil, err
        }
        posts = append(posts, p)
    }
    return posts, rows.Err()
}

var _ PostRepositoryInterface = (*PostRepository)(nil)
