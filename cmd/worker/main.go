// cmd/worker/main.go
//
// Consumes run requests from the bot_runs queue and executes them. The admin API
// enqueues; this binary does the slow work (a run can sit minutes in retry backoff).
package main

import (
    "context"
    "encoding/json"
    "log"
    "os"

    "github.com/joho/godotenv"

    "github.com/unclebandit/xmarketing-bot/internal/db"
    "github.com/unclebandit/xmarketing-bot/internal/generation"
    "github.com/unclebandit/xmarketing-bot/internal/platform"
    "github.com/unclebandit/xmarketing-bot/internal/queue"
    "github.com/unclebandit/xmarketing-bot/internal/repository"
    "github.com/unclebandit/xmarketing-bot/internal/retry"
    "github.com/unclebandit/xmarketing-bot/internal/service"
)

func main() {
    if err := godotenv.Load(); err != nil {
        log.Println("⚠️ No .env file found, relying on OS environment variables")
    }

    db.Init()

    ctx := context.Background()
    gemini, err := generation.NewClient(ctx, os.Getenv("GEMINI_API_KEY"))
    if err != nil {
        log.Fatal("Failed to init Gemini client:", err)
    }

    xClient := platform.NewXClient(
        os.Getenv("X_API_KEY"),
        os.Getenv("X_API_SECRET"),
        os.Getenv("X_ACCESS_TOKEN"),
        os.Getenv("X_ACCESS_TOKEN_SECRET"),
    )

    logger := &service.RunLogger{
        Logs: &repository.LogRepository{DB: db.DB},
    }

    // Connect to RabbitMQ
    conn, err := queue.Dial()
    if err != nil {
        log.Fatal("Failed to connect to RabbitMQ:", err)
    }
    defer conn.Close()

    ch, err := conn.Channel()
    if err != nil {
        log.Fatal("Failed to open a channel:", err)
    }
    defer ch.Close()

    q, err := queue.DeclareRunQueue(ch)
    if err != nil {
        log.Fatal("Failed to declare queue:", err)
    }

    msgs, err := ch.Consume(
        q.Name,
        "",
        false, // autoAck = false for reliability
        false,
        false,
        false,
        nil,
    )
    if err != nil {
        log.Fatal("Failed to register consumer:", err)
    }

    forever := make(chan bool)

    go func() {
        for d := range msgs {
            var req queue.RunRequest
            if err := json.Unmarshal(d.Body, &req); err != nil {
                log.Println("Invalid run request:", err)
                d.Ack(false)
                continue
            }

            err := executeRun(ctx, req, gemini, xClient, logger)
            if err != nil {
                log.Println("Run failed:", err)
                // Retry logic: requeue up to 3 times
                var retryCount int
                if d.Headers["x-retry-count"] != nil {
                    retryCount, _ = d.Headers["x-retry-count"].(int)
                }
                if retryCount < 3 {
                    d.Nack(false, true) // requeue
                    continue
                }
            }

            d.Ack(false)
        }
    }()

    log.Println("Worker running, waiting for run requests...")
    <-forever
}

func executeRun(ctx context.Context, req queue.RunRequest, gemini *generation.Client, xClient *platform.XClient, logger *service.RunLogger) error {
    switch req.Mode {
    case "post":
        pipeline := &service.PostPipeline{
            Campaigns: &repository.CampaignRepository{DB: db.DB},
            Posts:     &repository.PostRepository{DB: db.DB},
            Generator: gemini,
            Platform:  xClient,
            Logger:    logger,
            Retry:     retry.DefaultPolicy(),
            DryRun:    req.DryRun,
        }
        return pipeline.Run(ctx, req.Campaign)

    case "mentions":
        pipeline := &service.MentionsPipeline{
            Mentions:  &repository.MentionRepository{DB: db.DB},
            Generator: gemini,
            Platform:  xClient,
            Logger:    logger,
            Retry:     retry.DefaultPolicy(),
            DryRun:    req.DryRun,
        }
        return pipeline.Run(ctx, req.Limit)

    default:
        log.Printf("⚠️ Dropping run request with unknown mode %q\n", req.Mode)
        return nil // no point requeuing it
    }
}
