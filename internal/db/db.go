// internal/db/db.go
package db

import (
    "database/sql"
    "fmt"
    "log"
    "os"

    _ "github.com/lib/pq"
)

var DB *sql.DB

func Init() {
    user := os.Getenv("DB_USER")
    pass := os.Getenv("DB_PASSWORD")
    host := os.Getenv("DB_HOST")
    port := os.Getenv("DB_PORT")
    name := os.Getenv("DB_NAME")

    dsn := fmt.Sprintf(
        "postgres://%s:%s@%s:%s/%s?sslmode=disable",
        user, pass, host, port, name,
    )

    // DATABASE_URL wins when set (Supabase hands out a single connection string)
    if url := os.Getenv("DATABASE_URL"); url != "" {
        dsn = url
    }

    var err error
    DB, err = sql.Open("postgres", dsn)
    if err != nil {
        log.Fatalf("failed to connect to DB: %v", err)
    }

    if err = DB.Ping(); err != nil {
        log.Fatalf("failed to ping DB: %v", err)
    }

    if err = Migrate(DB); err != nil {
        log.Fatalf("failed to migrate DB: %v", err)
    }

    log.Println("✅ Connected to database")
}

// Migrate creates the schema if it is not there yet. mentions.mention_id is the
// dedup key for the mentions pipeline; posts.campaign_id is a weak reference so
// posts survive campaign deletion.
func Migrate(db *sql.DB) error {
    _, err := db.Exec(`
    CREATE TABLE IF NOT EXISTS campaigns (
        id SERIAL PRIMARY KEY,
        name TEXT UNIQUE NOT NULL,
        system_prompt TEXT NOT NULL DEFAULT '',
        topic_list TEXT[] NOT NULL DEFAULT '{}',
        active BOOLEAN NOT NULL DEFAULT FALSE,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    );

    CREATE TABLE IF NOT EXISTS posts (
        id SERIAL PRIMARY KEY,
        campaign_id INTEGER REFERENCES campaigns(id) ON DELETE SET NULL,
        content TEXT NOT NULL,
        x_post_id TEXT,
        posted_at TIMESTAMPTZ NOT NULL
    );

    CREATE TABLE IF NOT EXISTS mentions (
        mention_id TEXT PRIMARY KEY,
        author_username TEXT NOT NULL,
        mention_text TEXT NOT NULL,
        reply_text TEXT,
        reply_id TEXT,
        replied_at TIMESTAMPTZ NOT NULL
    );

    CREATE TABLE IF NOT EXISTS logs (
        id SERIAL PRIMARY KEY,
        message TEXT NOT NULL,
        level TEXT NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    );

    CREATE INDEX IF NOT EXISTS idx_campaigns_active ON campaigns(active);
    CREATE INDEX IF NOT EXISTS idx_posts_campaign ON posts(campaign_id);
    `)
    return err
}
