// internal/model/mention.go
package model

import "time"

// Mention is a processed inbound mention. MentionID is the platform's tweet id and
// doubles as the dedup key: a row exists iff the mention has been handled, even when
// reply generation or posting failed for it.
type Mention struct {
    MentionID      string    `db:"mention_id" json:"mention_id"`
    AuthorUsername string    `db:"author_username" json:"author_username"`
    MentionText    string    `db:"mention_text" json:"mention_text"`
    ReplyText      *string   `db:"reply_text" json:"reply_text,omitempty"` // nil if generation failed
    ReplyID        *string   `db:"reply_id" json:"reply_id,omitempty"`     // nil if posting failed
    RepliedAt      time.Time `db:"replied_at" json:"replied_at"`
}
