// cmd/server/main.go
package main

import (
    "log"
    "net/http"

    "github.com/go-chi/chi/v5"
    "github.com/joho/godotenv"

    "github.com/unclebandit/xmarketing-bot/internal/controller"
    "github.com/unclebandit/xmarketing-bot/internal/db"
    "github.com/unclebandit/xmarketing-bot/internal/repository"
    "github.com/unclebandit/xmarketing-bot/internal/service"
)

func main() {
    // Load .env
    if err := godotenv.Load(); err != nil {
        log.Println("⚠️ No .env file found, relying on OS environment variables")
    }

    // Init DB
    db.Init()

    campaignRepo := &repository.CampaignRepository{DB: db.DB}

    botController := &controller.BotController{
        CampaignService: &service.CampaignService{CampaignRepo: campaignRepo},
        PostRepo:        &repository.PostRepository{DB: db.DB},
        MentionRepo:     &repository.MentionRepository{DB: db.DB},
        LogRepo:         &repository.LogRepository{DB: db.DB},
    }

    r := chi.NewRouter()

    // Campaign admin routes
    r.Post("/campaigns", botController.CreateCampaign)
    r.Get("/campaigns", botController.ListCampaigns)
    r.Post("/campaigns/{id}/toggle", botController.ToggleCampaign)

    // Audit surface over the append-only tables
    r.Get("/posts", botController.ListPosts)
    r.Get("/mentions", botController.ListMentions)
    r.Get("/logs", botController.ListLogs)

    // Hand a pipeline run to the worker
    r.Post("/runs", botController.TriggerRun)

    log.Println("🚀 Admin API running on :8080")
    log.Fatal(http.ListenAndServe(":8080", r))
}
