package service

import (
    "github.com/unclebandit/xmarketing-bot/internal/generation"
    "github.com/unclebandit/xmarketing-bot/internal/model"
    "github.com/unclebandit/xmarketing-bot/internal/repository"

    appErrors "github.com/unclebandit/xmarketing-bot/internal/errors"
)

const (
    defaultSystemPrompt = "Write a professional tweet."
    defaultTopic        = "General update"
)

// PromptSource is what drives one content run: either a stored campaign or a bare
// ad-hoc description typed on the command line. The synthesis pipeline consumes
// both uniformly.
type PromptSource interface {
    // BuildPrompt returns the generation prompt and the system instruction for the
    // text model. pick selects a topic index when there are topics to choose from.
    BuildPrompt(pick func(n int) int) (prompt, systemInstruction string)
    CampaignID() *int
    Describe() string
}

type CampaignSource struct {
    Campaign *model.Campaign
}

func (s CampaignSource) BuildPrompt(pick func(n int) int) (string, string) {
    topic := defaultTopic
    if len(s.Campaign.TopicList) > 0 {
        topic = s.Campaign.TopicList[pick(len(s.Campaign.TopicList))]
    }
    goal := s.Campaign.SystemPrompt
    if goal == "" {
        goal = defaultSystemPrompt
    }
    return generation.BuildCampaignPrompt(goal, topic), goal
}

func (s CampaignSource) CampaignID() *int {
    id := s.Campaign.ID
    return &id
}

func (s CampaignSource) Describe() string {
    return "campaign " + s.Campaign.Name
}

type AdHocSource struct {
    Description string
}

func (s AdHocSource) BuildPrompt(pick func(n int) int) (string, string) {
    return generation.BuildCampaignPrompt(s.Description, defaultTopic), s.Description
}

func (s AdHocSource) CampaignID() *int { return nil }

func (s AdHocSource) Describe() string {
    return "ad-hoc description"
}

// SelectCampaign resolves what drives this run. A requested name that matches an
// active campaign wins; a requested value matching nothing is treated as an ad-hoc
// one-shot description rather than an error. With no request at all, the first
// active campaign (lowest id) is used.
func SelectCampaign(repo repository.CampaignRepositoryInterface, requested string) (PromptSource, error) {
    if requested != "" {
        campaign, err := repo.GetActiveByName(requested)
        if err != nil {
            return nil, err
        }
        if campaign != nil {
            return CampaignSource{Campaign: campaign}, nil
        }
        return AdHocSource{Description: requested}, nil
    }

    campaign, err := repo.GetFirstActive()
    if err != nil {
        return nil, err
    }
    if campaign == nil {
        return nil, appErrors.NewNoCampaignAvailable()
    }
    return CampaignSource{Campaign: campaign}, nil
}
