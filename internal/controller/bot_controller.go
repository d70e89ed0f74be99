// internal/controller/bot_controller.go
package controller

import (
    "encoding/json"
    "log"
    "net/http"
    "strconv"

    "github.com/go-chi/chi/v5"

    "github.com/unclebandit/xmarketing-bot/internal/queue"
    "github.com/unclebandit/xmarketing-bot/internal/repository"
    "github.com/unclebandit/xmarketing-bot/internal/service"
)

type BotController struct {
    CampaignService *service.CampaignService
    PostRepo        repository.PostRepositoryInterface
    MentionRepo     repository.MentionRepositoryInterface
    LogRepo         repository.LogRepositoryInterface
}

func (c *BotController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
    var body struct {
        Name         string   `json:"name"`
        SystemPrompt string   `json:"system_prompt"`
        TopicList    []string `json:"topic_list"`
        Active       bool     `json:"active"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }

    campaign, err := c.CampaignService.CreateCampaign(body.Name, body.SystemPrompt, body.TopicList, body.Active)
    if err != nil {
        http.Error(w, err.Error(), http.StatusInternalServerError)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(campaign)
}

func (c *BotController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
    campaigns, err := c.CampaignService.ListCampaigns()
    if err != nil {
        http.Error(w, err.Error(), http.StatusInternalServerError)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(map[string]interface{}{
        "data": campaigns,
    })
}

func (c *BotController) ToggleCampaign(w http.ResponseWriter, r *http.Request) {
    idStr := chi.URLParam(r, "id")
    id, err := strconv.Atoi(idStr)
    if err != nil {
        http.Error(w, "invalid campaign id", http.StatusBadRequest)
        return
    }

    campaign, err := c.CampaignService.ToggleCampaign(id)
    if err != nil {
        http.Error(w, err.Error(), http.StatusInternalServerError)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(campaign)
}

func (c *BotController) ListPosts(w http.ResponseWriter, r *http.Request) {
    posts, err := c.PostRepo.List(queryLimit(r, 20))
    if err != nil {
        http.Error(w, err.Error(), http.StatusInternalServerError)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(map[string]interface{}{
        "data": posts,
    })
}

func (c *BotController) ListMentions(w http.ResponseWriter, r *http.Request) {
    mentions, err := c.MentionRepo.List(queryLimit(r, 20))
    if err != nil {
        http.Error(w, err.Error(), http.StatusInternalServerError)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(map[string]interface{}{
        "data": mentions,
    })
}

func (c *BotController) ListLogs(w http.ResponseWriter, r *http.Request) {
    logs, err := c.LogRepo.List(queryLimit(r, 50))
    if err != nil {
        http.Error(w, err.Error(), http.StatusInternalServerError)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(map[string]interface{}{
        "data": logs,
    })
}

// TriggerRun enqueues a pipeline run for the worker instead of running it in the
// request path; a run can spend minutes inside retry backoff.
func (c *BotController) TriggerRun(w http.ResponseWriter, r *http.Request) {
    var req queue.RunRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }
    if req.Mode != "post" && req.Mode != "mentions" {
        http.Error(w, "mode must be \"post\" or \"mentions\"", http.StatusBadRequest)
        return
    }

    conn, err := queue.Dial()
    if err != nil {
        http.Error(w, "Failed to connect to queue", http.StatusInternalServerError)
        return
    }
    defer conn.Close()

    ch, err := conn.Channel()
    if err != nil {
        http.Error(w, "Failed to open queue channel", http.StatusInternalServerError)
        return
    }
    defer ch.Close()

    if _, err := queue.DeclareRunQueue(ch); err != nil {
        http.Error(w, "Failed to declare queue", http.StatusInternalServerError)
        return
    }

    if err := queue.PublishRun(ch, req); err != nil {
        log.Println("Failed to publish run request:", err)
        http.Error(w, "Failed to enqueue run", http.StatusInternalServerError)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(map[string]interface{}{
        "status": "queued",
        "mode":   req.Mode,
    })
}

func queryLimit(r *http.Request, fallback int) int {
    limit := fallback
    if s := r.URL.Query().Get("limit"); s != "" {
        if n, err := strconv.Atoi(s); err == nil && n > 0 {
            limit = n
        }
    }
    return limit
}
