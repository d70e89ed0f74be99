package service

import (
    "context"
    "math/rand"

    "github.com/unclebandit/xmarketing-bot/internal/generation"
    "github.com/unclebandit/xmarketing-bot/internal/model"
    "github.com/unclebandit/xmarketing-bot/internal/platform"
    "github.com/unclebandit/xmarketing-bot/internal/repository"
    "github.com/unclebandit/xmarketing-bot/internal/retry"

    appErrors "github.com/unclebandit/xmarketing-bot/internal/errors"
)

// Generator defines the two generative capabilities the pipelines consume.
type Generator interface {
    GenerateText(ctx context.Context, prompt, systemInstruction string) (string, error)
    GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

// Publisher defines what the pipelines need from the X client.
type Publisher interface {
    CreatePost(ctx context.Context, text, mediaID string) (string, error)
    UploadMedia(ctx context.Context, media []byte) (string, error)
    FetchMentions(ctx context.Context, limit int) ([]platform.Mention, error)
    CreateReply(ctx context.Context, parentID, text string) (string, error)
}

// PostPipeline runs one campaign post end to end: select campaign, synthesize text
// and image, publish, persist. Text is mandatory; the image leg is best-effort and
// its failures degrade the run to a text-only post instead of aborting it.
type PostPipeline struct {
    Campaigns repository.CampaignRepositoryInterface
    Posts     repository.PostRepositoryInterface
    Generator Generator
    Platform  Publisher
    Logger    *RunLogger
    Retry     retry.Policy
    DryRun    bool
    PickTopic func(n int) int // defaults to rand.Intn
}

func (p *PostPipeline) Run(ctx context.Context, campaignArg string) error {
    p.Logger.Info("Starting post run...")

    source, err := SelectCampaign(p.Campaigns, campaignArg)
    if err != nil {
        p.Logger.Error("Post run failed: %v", err)
        return err
    }
    p.Logger.Info("Generating content for %s", source.Describe())

    text, image, err := p.synthesize(ctx, source)
    if err != nil {
        p.Logger.Error("Post run failed: %v", err)
        return err
    }

    if err := p.publish(ctx, source, text, image); err != nil {
        p.Logger.Error("Post run failed: %v", err)
        return err
    }
    return nil
}

// synthesize produces the tweet text (mandatory) and image bytes (best-effort, nil
// on any image failure).
func (p *PostPipeline) synthesize(ctx context.Context, source PromptSource) (string, []byte, error) {
    pick := p.PickTopic
    if pick == nil {
        pick = rand.Intn
    }
    prompt, systemInstruction := source.BuildPrompt(pick)

    raw, err := retry.Get(p.Retry, func() (string, error) {
        return p.Generator.GenerateText(ctx, prompt, systemInstruction)
    })
    if err != nil {
        return "", nil, appErrors.NewContentGenerationFailed(err)
    }

    text, imagePrompt := generation.ParseGenerated(raw)
    if truncated, cut := TruncateTweet(text, TweetMaxChars); cut {
        p.Logger.Warning("Generated tweet exceeded %d characters, truncated", TweetMaxChars)
        text = truncated
    }
    p.Logger.Info("Generated tweet: %s", text)

    image, err := retry.Get(p.Retry, func() ([]byte, error) {
        return p.Generator.GenerateImage(ctx, imagePrompt)
    })
    if err != nil {
        p.Logger.Warning("Image generation failed, posting text-only: %v", err)
        image = nil
    }
    return text, image, nil
}

func (p *PostPipeline) publish(ctx context.Context, source PromptSource, text string, image []byte) error {
    if p.DryRun {
        p.Logger.Info("[DRY RUN] Would have posted: %q (image attached: %v)", text, image != nil)
        return p.persist(source, text, nil)
    }

    mediaID := ""
    if image != nil {
        id, err := retry.Get(p.Retry, func() (string, error) {
            return p.Platform.UploadMedia(ctx, image)
        })
        if err != nil {
            // Never block text publication on the media leg.
            p.Logger.Warning("Media upload failed, posting text-only: %v", err)
        } else {
            mediaID = id
        }
    }

    postID, err := retry.Get(p.Retry, func() (string, error) {
        return p.Platform.CreatePost(ctx, text, mediaID)
    })
    if err != nil {
        return appErrors.NewPublishFailed(err)
    }

    if err := p.persist(source, text, &postID); err != nil {
        return err
    }
    p.Logger.Info("✅ Posted! ID: %s", postID)
    return nil
}

func (p *PostPipeline) persist(source PromptSource, text string, postID *string) error {
    post := &model.Post{
        CampaignID: source.CampaignID(),
        Content:    text,
        XPostID:    postID,
    }
    return p.Posts.Create(post)
}
