package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	appErrors "github.com/unclebandit/xmarketing-bot/internal/errors"
	"github.com/unclebandit/xmarketing-bot/internal/model"
	"github.com/unclebandit/xmarketing-bot/internal/platform"
	"github.com/unclebandit/xmarketing-bot/internal/retry"
	"github.com/unclebandit/xmarketing-bot/internal/service"
)

// --- Mocks shared by the pipeline tests ---

type MockCampaignRepo struct {
	active    []*model.Campaign
	createErr error
}

func (m *MockCampaignRepo) Create(c *model.Campaign) error {
	if m.createErr != nil {
		return m.createErr
	}
	c.ID = len(m.active) + 1
	c.CreatedAt = time.Now()
	m.active = append(m.active, c)
	return nil
}

func (m *MockCampaignRepo) GetByID(id int) (*model.Campaign, error) {
	for _, c := range m.active {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (m *MockCampaignRepo) GetActiveByName(name string) (*model.Campaign, error) {
	for _, c := range m.active {
		if c.Active && c.Name == name {
			return c, nil
		}
	}
	return nil, nil
}

func (m *MockCampaignRepo) GetFirstActive() (*model.Campaign, error) {
	var first *model.Campaign
	for _, c := range m.active {
		if c.Active && (first == nil || c.ID < first.ID) {
			first = c
		}
	}
	return first, nil
}

func (m *MockCampaignRepo) List() ([]model.Campaign, error) {
	out := []model.Campaign{}
	for _, c := range m.active {
		out = append(out, *c)
	}
	return out, nil
}

func (m *MockCampaignRepo) ToggleActive(id int) (*model.Campaign, error) {
	for _, c := range m.active {
		if c.ID == id {
			c.Active = !c.Active
			return c, nil
		}
	}
	return nil, nil
}

type MockPostRepo struct {
	posts []*model.Post
}

func (m *MockPostRepo) Create(p *model.Post) error {
	p.ID = len(m.posts) + 1
	m.posts = append(m.posts, p)
	return nil
}

func (m *MockPostRepo) List(limit int) ([]model.Post, error) {
	out := []model.Post{}
	for _, p := range m.posts {
		out = append(out, *p)
	}
	return out, nil
}

type MockLogRepo struct {
	records []model.LogRecord
}

func (m *MockLogRepo) Insert(message string, level model.LogLevel) error {
	m.records = append(m.records, model.LogRecord{Message: message, Level: level})
	return nil
}

func (m *MockLogRepo) List(limit int) ([]model.LogRecord, error) {
	return m.records, nil
}

func (m *MockLogRepo) countLevel(level model.LogLevel) int {
	n := 0
	for _, r := range m.records {
		if r.Level == level {
			n++
		}
	}
	return n
}

type MockGenerator struct {
	textFunc   func(prompt string) (string, error)
	imageFunc  func(prompt string) ([]byte, error)
	textCalls  int
	imageCalls int
}

func (m *MockGenerator) GenerateText(ctx context.Context, prompt, systemInstruction string) (string, error) {
	m.textCalls++
	if m.textFunc == nil {
		return "Sample tweet\nA sample image prompt", nil
	}
	return m.textFunc(prompt)
}

func (m *MockGenerator) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	m.imageCalls++
	if m.imageFunc == nil {
		return []byte{0x89, 0x50}, nil
	}
	return m.imageFunc(prompt)
}

type createdPost struct {
	text    string
	mediaID string
}

type createdReply struct {
	parentID string
	text     string
}

type MockPlatform struct {
	postID    string
	createErr error
	created   []createdPost

	mediaID   string
	uploadErr error
	uploads   int

	mentions   []platform.Mention
	fetchErr   error
	fetchCalls int

	replyID  string
	replyErr error
	replies  []createdReply
}

func (m *MockPlatform) CreatePost(ctx context.Context, text, mediaID string) (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	m.created = append(m.created, createdPost{text: text, mediaID: mediaID})
	return m.postID, nil
}

func (m *MockPlatform) UploadMedia(ctx context.Context, media []byte) (string, error) {
	m.uploads++
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	return m.mediaID, nil
}

func (m *MockPlatform) FetchMentions(ctx context.Context, limit int) ([]platform.Mention, error) {
	m.fetchCalls++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	if len(m.mentions) > limit {
		return m.mentions[:limit], nil
	}
	return m.mentions, nil
}

func (m *MockPlatform) CreateReply(ctx context.Context, parentID, text string) (string, error) {
	if m.replyErr != nil {
		return "", m.replyErr
	}
	m.replies = append(m.replies, createdReply{parentID: parentID, text: text})
	return m.replyID, nil
}

// testPolicy keeps the full retry budget but never actually sleeps
func testPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, Sleep: func(time.Duration) {}}
}

func newPostPipeline(campaigns *MockCampaignRepo, posts *MockPostRepo, gen *MockGenerator, plat *MockPlatform, logs *MockLogRepo) *service.PostPipeline {
	return &service.PostPipeline{
		Campaigns: campaigns,
		Posts:     posts,
		Generator: gen,
		Platform:  plat,
		Logger:    &service.RunLogger{Logs: logs},
		Retry:     testPolicy(),
		PickTopic: func(n int) int { return 0 },
	}
}

func techNewsCampaign() *MockCampaignRepo {
	return &MockCampaignRepo{active: []*model.Campaign{
		{ID: 1, Name: "Tech News", SystemPrompt: "Write sharp takes on tech.", TopicList: []string{"AI", "Chips"}, Active: true},
	}}
}

// --- Tests ---

func TestImageFailureDegradesToTextOnlyPost(t *testing.T) {
	gen := &MockGenerator{
		textFunc: func(prompt string) (string, error) {
			return "Sample tweet about AI\nA glowing neural network over a city skyline", nil
		},
		imageFunc: func(prompt string) ([]byte, error) {
			return nil, errors.New("image backend down")
		},
	}
	plat := &MockPlatform{postID: "1234567890"}
	posts := &MockPostRepo{}
	logs := &MockLogRepo{}

	pipeline := newPostPipeline(techNewsCampaign(), posts, gen, plat, logs)

	if err := pipeline.Run(context.Background(), ""); err != nil {
		t.Fatalf("expected degraded success, got %v", err)
	}

	if len(plat.created) != 1 {
		t.Fatalf("expected 1 post, got %d", len(plat.created))
	}
	if plat.created[0].text != "Sample tweet about AI" {
		t.Errorf("unexpected tweet text: %q", plat.created[0].text)
	}
	if plat.created[0].mediaID != "" {
		t.Errorf("expected no media attached, got %q", plat.created[0].mediaID)
	}
	if plat.uploads != 0 {
		t.Errorf("expected no upload attempts, got %d", plat.uploads)
	}
	if gen.imageCalls != 3 {
		t.Errorf("expected image generation to use its full retry budget, got %d calls", gen.imageCalls)
	}

	if len(posts.posts) != 1 {
		t.Fatalf("expected 1 post record, got %d", len(posts.posts))
	}
	post := posts.posts[0]
	if post.XPostID == nil || *post.XPostID != "1234567890" {
		t.Errorf("expected post record with platform id, got %+v", post.XPostID)
	}
	if post.CampaignID == nil || *post.CampaignID != 1 {
		t.Errorf("expected post linked to campaign 1, got %+v", post.CampaignID)
	}

	if got := logs.countLevel(model.LevelWarning); got != 1 {
		t.Errorf("expected exactly 1 WARNING record, got %d", got)
	}
}

func TestLongTweetIsTruncated(t *testing.T) {
	long := strings.Repeat("all work and no play ", 20) // ~420 chars
	gen := &MockGenerator{
		textFunc: func(prompt string) (string, error) {
			return long + "\nimage prompt", nil
		},
	}
	plat := &MockPlatform{postID: "1", mediaID: "m1"}
	posts := &MockPostRepo{}
	logs := &MockLogRepo{}

	pipeline := newPostPipeline(techNewsCampaign(), posts, gen, plat, logs)

	if err := pipeline.Run(context.Background(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	published := plat.created[0].text
	if utf8.RuneCountInString(published) > service.TweetMaxChars {
		t.Errorf("published text is %d chars, over the %d ceiling", utf8.RuneCountInString(published), service.TweetMaxChars)
	}
	if !strings.HasSuffix(published, "…") {
		t.Errorf("expected truncation marker, got %q", published)
	}
	if posts.posts[0].Content != published {
		t.Errorf("persisted content differs from published content")
	}
	if logs.countLevel(model.LevelWarning) == 0 {
		t.Errorf("expected a WARNING log for truncation")
	}
}

func TestTextGenerationFailureIsFatal(t *testing.T) {
	gen := &MockGenerator{
		textFunc: func(prompt string) (string, error) {
			return "", errors.New("model overloaded")
		},
	}
	plat := &MockPlatform{postID: "1"}
	posts := &MockPostRepo{}
	logs := &MockLogRepo{}

	pipeline := newPostPipeline(techNewsCampaign(), posts, gen, plat, logs)

	err := pipeline.Run(context.Background(), "")
	var genErr *appErrors.ErrContentGenerationFailed
	if !errors.As(err, &genErr) {
		t.Fatalf("expected ErrContentGenerationFailed, got %v", err)
	}
	if gen.textCalls != 3 {
		t.Errorf("expected 3 text generation attempts, got %d", gen.textCalls)
	}
	if len(plat.created) != 0 || len(posts.posts) != 0 {
		t.Errorf("expected nothing published or persisted on fatal failure")
	}
	if logs.countLevel(model.LevelError) != 1 {
		t.Errorf("expected the fatal failure to be logged at ERROR")
	}
}

func TestPublishFailureIsFatal(t *testing.T) {
	gen := &MockGenerator{
		imageFunc: func(prompt string) ([]byte, error) { return nil, errors.New("no image") },
	}
	plat := &MockPlatform{createErr: errors.New("rate limited")}
	posts := &MockPostRepo{}
	logs := &MockLogRepo{}

	pipeline := newPostPipeline(techNewsCampaign(), posts, gen, plat, logs)

	err := pipeline.Run(context.Background(), "")
	var pubErr *appErrors.ErrPublishFailed
	if !errors.As(err, &pubErr) {
		t.Fatalf("expected ErrPublishFailed, got %v", err)
	}
	if len(posts.posts) != 0 {
		t.Errorf("expected no post record when publishing failed")
	}
}

func TestMediaUploadFailureStillPostsText(t *testing.T) {
	gen := &MockGenerator{}
	plat := &MockPlatform{postID: "42", uploadErr: errors.New("upload broken")}
	posts := &MockPostRepo{}
	logs := &MockLogRepo{}

	pipeline := newPostPipeline(techNewsCampaign(), posts, gen, plat, logs)

	if err := pipeline.Run(context.Background(), ""); err != nil {
		t.Fatalf("expected success without media, got %v", err)
	}
	if plat.uploads != 3 {
		t.Errorf("expected upload to use its retry budget, got %d attempts", plat.uploads)
	}
	if plat.created[0].mediaID != "" {
		t.Errorf("expected text-only post after upload failure")
	}
	if logs.countLevel(model.LevelWarning) != 1 {
		t.Errorf("expected exactly 1 WARNING, got %d", logs.countLevel(model.LevelWarning))
	}
}

func TestNoActiveCampaignFails(t *testing.T) {
	pipeline := newPostPipeline(&MockCampaignRepo{}, &MockPostRepo{}, &MockGenerator{}, &MockPlatform{}, &MockLogRepo{})

	err := pipeline.Run(context.Background(), "")
	var noCampaign *appErrors.ErrNoCampaignAvailable
	if !errors.As(err, &noCampaign) {
		t.Fatalf("expected ErrNoCampaignAvailable, got %v", err)
	}
}

func TestUnknownCampaignNameRunsAdHoc(t *testing.T) {
	var seenPrompt string
	gen := &MockGenerator{
		textFunc: func(prompt string) (string, error) {
			seenPrompt = prompt
			return "Join our webinar!\nA stage with spotlights", nil
		},
	}
	plat := &MockPlatform{postID: "7", mediaID: "m7"}
	posts := &MockPostRepo{}

	pipeline := newPostPipeline(techNewsCampaign(), posts, gen, plat, &MockLogRepo{})

	if err := pipeline.Run(context.Background(), "Promote our launch webinar next Tuesday"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(seenPrompt, "Promote our launch webinar next Tuesday") {
		t.Errorf("ad-hoc description not used in prompt: %q", seenPrompt)
	}
	if posts.posts[0].CampaignID != nil {
		t.Errorf("ad-hoc run should not be linked to a campaign")
	}
}

func TestDryRunMakesNoPlatformCalls(t *testing.T) {
	gen := &MockGenerator{}
	plat := &MockPlatform{postID: "should-not-appear"}
	posts := &MockPostRepo{}
	logs := &MockLogRepo{}

	pipeline := newPostPipeline(techNewsCampaign(), posts, gen, plat, logs)
	pipeline.DryRun = true

	if err := pipeline.Run(context.Background(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plat.created) != 0 || plat.uploads != 0 {
		t.Errorf("dry run must not touch the platform")
	}
	if len(posts.posts) != 1 {
		t.Fatalf("expected the synthetic post record, got %d", len(posts.posts))
	}
	if posts.posts[0].XPostID != nil {
		t.Errorf("dry-run post record must not carry a platform id, got %q", *posts.posts[0].XPostID)
	}
}

func TestTopicPickIsUsedInPrompt(t *testing.T) {
	var seenPrompt string
	gen := &MockGenerator{
		textFunc: func(prompt string) (string, error) {
			seenPrompt = prompt
			return "tweet\nimage", nil
		},
	}
	pipeline := newPostPipeline(techNewsCampaign(), &MockPostRepo{}, gen, &MockPlatform{postID: "1", mediaID: "m"}, &MockLogRepo{})
	pipeline.PickTopic = func(n int) int { return 1 } // "Chips"

	if err := pipeline.Run(context.Background(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(seenPrompt, "Chips") {
		t.Errorf("expected picked topic in prompt, got %q", seenPrompt)
	}
}
