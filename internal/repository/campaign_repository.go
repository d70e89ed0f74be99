package repository

import (
    "database/sql"

    "github.com/lib/pq"

    "github.com/unclebandit/xmarketing-bot/internal/model"
)

type CampaignRepositoryInterface interface {
    Create(c *model.Campaign) error
    GetByID(id int) (*model.Campaign, error)
    GetActiveByName(name string) (*model.Campaign, error)
    GetFirstActive() (*model.Campaign, error)
    List() ([]model.Campaign, error)
    ToggleActive(id int) (*model.Campaign, error)
}

type CampaignRepository struct {
    DB *sql.DB
}

func (r *CampaignRepository) Create(c *model.Campaign) error {
    query := `
        INSERT INTO campaigns (name, system_prompt, topic_list, active)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `
    return r.DB.QueryRow(query, c.Name, c.SystemPrompt, pq.Array(c.TopicList), c.Active).
        Scan(&c.ID, &c.CreatedAt)
}

func (r *CampaignRepository) GetByID(id int) (*model.Campaign, error) {
    query := `
        SELECT id, name, system_prompt, topic_list, active, created_at
        FROM campaigns WHERE id=$1
    `
    return r.scanOne(r.DB.QueryRow(query, id))
}

func (r *CampaignRepository) GetActiveByName(name string) (*model.Campaign, error) {
    query := `
        SELECT id, name, system_prompt, topic_list, active, created_at
        FROM campaigns WHERE active=TRUE AND name=$1
    `
    return r.scanOne(r.DB.QueryRow(query, name))
}

// GetFirstActive resolves ties between simultaneously active campaigns by lowest id,
// so repeated runs pick the same campaign.
func (r *CampaignRepository) GetFirstActive() (*model.Campaign, error) {
    query := `
        SELECT id, name, system_prompt, topic_list, active, created_at
        FROM campaigns WHERE active=TRUE
        ORDER BY id ASC LIMIT 1
    `
    return r.scanOne(r.DB.QueryRow(query))
}

func (r *CampaignRepository) List() ([]model.Campaign, error) {
    query := `
        SELECT id, name, system_prompt, topic_list, active, created_at
        FROM campaigns ORDER BY id ASC
    `
    rows, err := r.DB.Query(query)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    campaigns := []model.Campaign{}
    for rows.Next() {
        var c model.Campaign
        if err := rows.Scan(&c.ID, &c.Name, &c.SystemPrompt, pq.Array(&c.TopicList), &c.Active, &c.CreatedAt); err != nil {
            return nil, err
        }
        campaigns = append(campaigns, c)
    }
    return campaigns, rows.Err()
}

func (r *CampaignRepository) ToggleActive(id int) (*model.Campaign, error) {
    query := `
        UPDATE campaigns SET active = NOT active WHERE id=$1
        RETURNING id, name, system_prompt, topic_list, active, created_at
    `
    return r.scanOne(r.DB.QueryRow(query, id))
}

func (r *CampaignRepository) scanOne(row *sql.Row) (*model.Campaign, error) {
    var c model.Campaign
    err := row.Scan(&c.ID, &c.Name, &c.SystemPrompt, pq.Array(&c.TopicList), &c.Active, &c.CreatedAt)
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, nil // not found
        }
        return nil, err
    }
    return &c, nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
