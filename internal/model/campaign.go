// internal/model/campaign.go
package model

import "time"

type Campaign struct {
    ID           int       `db:"id" json:"id"`
    Name         string    `db:"name" json:"name"`
    SystemPrompt string    `db:"system_prompt" json:"system_prompt"`
    TopicList    []string  `db:"topic_list" json:"topic_list"`
    Active       bool      `db:"active" json:"active"`
    CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
