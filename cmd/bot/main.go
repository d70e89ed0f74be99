// cmd/bot/main.go
//
// One-shot pipeline runner, meant to be invoked from cron or a scheduler:
//
//	bot -mode post [-campaign "name or description"] [-dry-run]
//	bot -mode mentions [-limit 5] [-dry-run]
//	bot -mode campaigns -list | -add NAME -system-prompt P -topics "a,b" [-activate] | -toggle ID
//
// Exits 0 on completion (including degraded, image-less completion) and 1 on any
// fatal failure, after the failure has been written to the logs table.
package main

import (
    "context"
    "flag"
    "fmt"
    "log"
    "os"
    "strconv"
    "strings"

    "github.com/joho/godotenv"

    "github.com/unclebandit/xmarketing-bot/internal/db"
    "github.com/unclebandit/xmarketing-bot/internal/generation"
    "github.com/unclebandit/xmarketing-bot/internal/notify"
    "github.com/unclebandit/xmarketing-bot/internal/platform"
    "github.com/unclebandit/xmarketing-bot/internal/repository"
    "github.com/unclebandit/xmarketing-bot/internal/retry"
    "github.com/unclebandit/xmarketing-bot/internal/service"
)

var requiredVars = []string{
    "X_API_KEY", "X_API_SECRET", "X_ACCESS_TOKEN", "X_ACCESS_TOKEN_SECRET",
    "GEMINI_API_KEY",
}

func main() {
    mode := flag.String("mode", "post", "run mode: post, mentions or campaigns")
    dryRun := flag.Bool("dry-run", false, "run everything except live platform calls")
    campaignArg := flag.String("campaign", "", "campaign name, or free-form description for a one-shot run")
    limit := flag.Int("limit", service.DefaultMentionLimit, "max mentions to process in one run")

    // campaign-admin flags (-mode campaigns)
    listFlag := flag.Bool("list", false, "list all campaigns")
    addName := flag.String("add", "", "create a campaign with this name")
    systemPrompt := flag.String("system-prompt", "", "system prompt for -add")
    topics := flag.String("topics", "", "comma-separated topic list for -add")
    activate := flag.Bool("activate", false, "create the campaign as active")
    toggleID := flag.Int("toggle", 0, "flip the active flag of the campaign with this id")
    flag.Parse()

    // Load .env
    if err := godotenv.Load(); err != nil {
        log.Println("⚠️ No .env file found, relying on OS environment variables")
    }

    db.Init()

    if err := run(*mode, *dryRun, *campaignArg, *limit, adminArgs{
        list:         *listFlag,
        addName:      *addName,
        systemPrompt: *systemPrompt,
        topics:       *topics,
        activate:     *activate,
        toggleID:     *toggleID,
    }); err != nil {
        os.Exit(1)
    }
}

type adminArgs struct {
    list         bool
    addName      string
    systemPrompt string
    topics       string
    activate     bool
    toggleID     int
}

func run(mode string, dryRun bool, campaignArg string, limit int, admin adminArgs) error {
    campaignRepo := &repository.CampaignRepository{DB: db.DB}

    if mode == "campaigns" {
        return runAdmin(&service.CampaignService{CampaignRepo: campaignRepo}, admin)
    }

    if missing := missingVars(); len(missing) > 0 {
        log.Printf("❌ Missing required environment variables: %s\n", strings.Join(missing, ", "))
        return fmt.Errorf("missing env vars")
    }

    ctx := context.Background()

    gemini, err := generation.NewClient(ctx, os.Getenv("GEMINI_API_KEY"))
    if err != nil {
        log.Println("❌ Failed to init Gemini client:", err)
        return err
    }

    xClient := platform.NewXClient(
        os.Getenv("X_API_KEY"),
        os.Getenv("X_API_SECRET"),
        os.Getenv("X_ACCESS_TOKEN"),
        os.Getenv("X_ACCESS_TOKEN_SECRET"),
    )

    logger := &service.RunLogger{
        Logs:   &repository.LogRepository{DB: db.DB},
        Alerts: telegramNotifier(),
    }

    switch mode {
    case "post":
        pipeline := &service.PostPipeline{
            Campaigns: campaignRepo,
            Posts:     &repository.PostRepository{DB: db.DB},
            Generator: gemini,
            Platform:  xClient,
            Logger:    logger,
            Retry:     retry.DefaultPolicy(),
            DryRun:    dryRun,
        }
        return pipeline.Run(ctx, campaignArg)

    case "mentions":
        pipeline := &service.MentionsPipeline{
            Mentions:  &repository.MentionRepository{DB: db.DB},
            Generator: gemini,
            Platform:  xClient,
            Logger:    logger,
            Retry:     retry.DefaultPolicy(),
            DryRun:    dryRun,
        }
        return pipeline.Run(ctx, limit)

    default:
        log.Printf("❌ Unknown mode %q (want post, mentions or campaigns)\n", mode)
        return fmt.Errorf("unknown mode %q", mode)
    }
}

func runAdmin(svc *service.CampaignService, admin adminArgs) error {
    switch {
    case admin.list:
        campaigns, err := svc.ListCampaigns()
        if err != nil {
            log.Println("❌ Failed to list campaigns:", err)
            return err
        }
        for _, c := range campaigns {
            status := " "
            if c.Active {
                status = "*"
            }
            fmt.Printf("[%s] %d  %s  (topics: %s)\n", status, c.ID, c.Name, strings.Join(c.TopicList, ", "))
        }
        return nil

    case admin.addName != "":
        c, err := svc.CreateCampaign(admin.addName, admin.systemPrompt, splitTopics(admin.topics), admin.activate)
        if err != nil {
            log.Println("❌ Failed to create campaign:", err)
            return err
        }
        log.Printf("✅ Created campaign %d: %s\n", c.ID, c.Name)
        return nil

    case admin.toggleID != 0:
        c, err := svc.ToggleCampaign(admin.toggleID)
        if err != nil {
            log.Println("❌ Failed to toggle campaign:", err)
            return err
        }
        log.Printf("✅ Campaign %d (%s) active=%v\n", c.ID, c.Name, c.Active)
        return nil

    default:
        log.Println("❌ -mode campaigns needs one of -list, -add or -toggle")
        return fmt.Errorf("no admin action given")
    }
}

func telegramNotifier() service.AlertSink {
    token := os.Getenv("TELEGRAM_BOT_TOKEN")
    chatIDStr := os.Getenv("TELEGRAM_CHAT_ID")
    if token == "" || chatIDStr == "" {
        return nil
    }
    chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
    if err != nil {
        log.Println("⚠️ Invalid TELEGRAM_CHAT_ID, alerts disabled:", err)
        return nil
    }
    notifier, err := notify.NewTelegramNotifier(token, chatID)
    if err != nil {
        log.Println("⚠️ Failed to init Telegram notifier, alerts disabled:", err)
        return nil
    }
    return notifier
}

func missingVars() []string {
    missing := []string{}
    for _, v := range requiredVars {
        if os.Getenv(v) == "" {
            missing = append(missing, v)
        }
    }
    return missing
}

func splitTopics(s string) []string {
    if s == "" {
        return nil
    }
    return strings.Split(s, ",")
}
