package service

import (
    "context"

    "github.com/unclebandit/xmarketing-bot/internal/generation"
    "github.com/unclebandit/xmarketing-bot/internal/model"
    "github.com/unclebandit/xmarketing-bot/internal/platform"
    "github.com/unclebandit/xmarketing-bot/internal/repository"
    "github.com/unclebandit/xmarketing-bot/internal/retry"

    appErrors "github.com/unclebandit/xmarketing-bot/internal/errors"
)

const (
    // DefaultMentionLimit bounds how many mentions one run may process.
    DefaultMentionLimit = 5

    replySystemInstruction = "You are the brand's social media manager. Keep replies short, friendly and on-topic."
)

// MentionsPipeline fetches recent mentions, skips ones already handled, and posts
// AI-generated replies. One bad mention never aborts the batch: generation or reply
// failures are recorded against that mention and the run moves on.
type MentionsPipeline struct {
    Mentions  repository.MentionRepositoryInterface
    Generator Generator
    Platform  Publisher
    Logger    *RunLogger
    Retry     retry.Policy
    DryRun    bool
}

func (p *MentionsPipeline) Run(ctx context.Context, limit int) error {
    if limit < 1 {
        limit = DefaultMentionLimit
    }
    p.Logger.Info("Starting mentions run (limit %d)...", limit)

    fetched, err := retry.Get(p.Retry, func() ([]platform.Mention, error) {
        return p.Platform.FetchMentions(ctx, limit)
    })
    if err != nil {
        wrapped := appErrors.NewMentionsFetchFailed(err)
        p.Logger.Error("Mentions run failed: %v", wrapped)
        return wrapped
    }

    processed := 0
    for _, mention := range fetched {
        if processed >= limit {
            break
        }

        exists, err := p.Mentions.Exists(mention.ID)
        if err != nil {
            p.Logger.Error("Mentions run failed: %v", err)
            return err
        }
        if exists {
            continue // already replied to on an earlier run
        }
        processed++

        // Persist immediately after each mention, not batched at the end, so a
        // crash mid-run loses nothing and double-counts nothing.
        if err := p.processMention(ctx, mention); err != nil {
            p.Logger.Error("Mentions run failed: %v", err)
            return err
        }
    }

    p.Logger.Info("Mentions run complete: %d of %d fetched mentions processed", processed, len(fetched))
    return nil
}

// processMention handles one unseen mention. Only store errors are returned;
// generation and reply failures degrade to a partial Mention record.
func (p *MentionsPipeline) processMention(ctx context.Context, mention platform.Mention) error {
    record := &model.Mention{
        MentionID:      mention.ID,
        AuthorUsername: mention.AuthorUsername,
        MentionText:    mention.Text,
    }

    prompt := generation.BuildReplyPrompt(mention.Text, mention.AuthorUsername)
    replyText, err := retry.Get(p.Retry, func() (string, error) {
        return p.Generator.GenerateText(ctx, prompt, replySystemInstruction)
    })
    if err != nil {
        p.Logger.Warning("Reply generation failed for mention %s: %v", mention.ID, err)
        return p.Mentions.Create(record)
    }

    if truncated, cut := TruncateTweet(replyText, TweetMaxChars); cut {
        p.Logger.Warning("Generated reply exceeded %d characters, truncated", TweetMaxChars)
        replyText = truncated
    }
    record.ReplyText = &replyText

    if p.DryRun {
        // No reply is posted and no record written, so a live run can still pick
        // this mention up later.
        p.Logger.Info("[DRY RUN] Would have replied to @%s (%s): %q", mention.AuthorUsername, mention.ID, replyText)
        return nil
    }

    replyID, err := retry.Get(p.Retry, func() (string, error) {
        return p.Platform.CreateReply(ctx, mention.ID, replyText)
    })
    if err != nil {
        p.Logger.Warning("Posting reply failed for mention %s: %v", mention.ID, err)
        return p.Mentions.Create(record)
    }
    record.ReplyID = &replyID

    if err := p.Mentions.Create(record); err != nil {
        return err
    }
    p.Logger.Info("✅ Replied to @%s (mention %s) with %s", mention.AuthorUsername, mention.ID, replyID)
    return nil
}
