//cmd/seeder/main.go
package main

import (
    "database/sql"
    "fmt"
    "log"
    "os"

    _ "github.com/lib/pq"

    "github.com/unclebandit/xmarketing-bot/internal/db"
)

func main() {
    dsn := os.Getenv("DATABASE_URL")
    conn, err := sql.Open("postgres", dsn)
    if err != nil {
        log.Fatal(err)
    }
    defer conn.Close()

    if err := db.Migrate(conn); err != nil {
        log.Fatalf("failed to migrate schema: %v", err)
    }

    seedFiles := []string{
        "seed/campaigns.sql",
    }

    for _, file := range seedFiles {
        content, err := os.ReadFile(file)
        if err != nil {
            log.Fatalf("failed to read %s: %v", file, err)
        }

        _, err = conn.Exec(string(content))
        if err != nil {
            log.Fatalf("failed to execute %s: %v", file, err)
        }
        fmt.Printf("Seeded: %s\n", file)
    }

    fmt.Println("Database seeding completed successfully!")
}
