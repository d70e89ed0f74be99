// internal/model/post.go
package model

import "time"

// Post is one completed publication attempt. Rows are written once and never updated.
type Post struct {
    ID         int       `db:"id" json:"id"`
    CampaignID *int      `db:"campaign_id" json:"campaign_id,omitempty"` // nil for ad-hoc runs
    Content    string    `db:"content" json:"content"`
    XPostID    *string   `db:"x_post_id" json:"x_post_id,omitempty"`
    PostedAt   time.Time `db:"posted_at" json:"posted_at"`
}
