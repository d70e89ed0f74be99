// internal/service/campaign_service.go
package service

import (
    "fmt"
    "strings"

    "github.com/unclebandit/xmarketing-bot/internal/model"
    "github.com/unclebandit/xmarketing-bot/internal/repository"
)

// CampaignService covers the campaign-admin actions exposed by the CLI and the
// admin API: create, list, toggle.
type CampaignService struct {
    CampaignRepo repository.CampaignRepositoryInterface
}

func (s *CampaignService) CreateCampaign(name, systemPrompt string, topics []string, active bool) (*model.Campaign, error) {
    name = strings.TrimSpace(name)
    if name == "" {
        return nil, fmt.Errorf("campaign name cannot be empty")
    }

    cleaned := []string{}
    for _, t := range topics {
        if t = strings.TrimSpace(t); t != "" {
            cleaned = append(cleaned, t)
        }
    }

    c := &model.Campaign{
        Name:         name,
        SystemPrompt: strings.TrimSpace(systemPrompt),
        TopicList:    cleaned,
        Active:       active,
    }
    if err := s.CampaignRepo.Create(c); err != nil {
        return nil, err
    }
    return c, nil
}

func (s *CampaignService) ListCampaigns() ([]model.Campaign, error) {
    return s.CampaignRepo.List()
}

// ToggleCampaign flips the active flag, the only mutation campaigns support.
func (s *CampaignService) ToggleCampaign(id int) (*model.Campaign, error) {
    c, err := s.CampaignRepo.ToggleActive(id)
    if err != nil {
        return nil, err
    }
    if c == nil {
        return nil, fmt.Errorf("campaign with ID %d not found", id)
    }
    return c, nil
}
