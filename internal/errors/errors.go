// internal/errors/errors.go
package appErrors

import "fmt"

// ErrNoCampaignAvailable is a sentinel error: no active campaign and no ad-hoc description.
type ErrNoCampaignAvailable struct{}

func (e *ErrNoCampaignAvailable) Error() string {
    return "no active campaign found and no ad-hoc description given"
}

func NewNoCampaignAvailable() error {
    return &ErrNoCampaignAvailable{}
}

// ErrContentGenerationFailed means text generation exhausted its retries. Text is
// mandatory, so this aborts the post pipeline.
type ErrContentGenerationFailed struct {
    Cause error
}

func (e *ErrContentGenerationFailed) Error() string {
    return fmt.Sprintf("content generation failed: %v", e.Cause)
}

func (e *ErrContentGenerationFailed) Unwrap() error { return e.Cause }

func NewContentGenerationFailed(cause error) error {
    return &ErrContentGenerationFailed{Cause: cause}
}

// ErrPublishFailed means tweet creation exhausted its retries.
type ErrPublishFailed struct {
    Cause error
}

func (e *ErrPublishFailed) Error() string {
    return fmt.Sprintf("publishing failed: %v", e.Cause)
}

func (e *ErrPublishFailed) Unwrap() error { return e.Cause }

func NewPublishFailed(cause error) error {
    return &ErrPublishFailed{Cause: cause}
}

// ErrMentionsFetchFailed means the mentions timeline could not be fetched; the whole
// mentions run aborts on it.
type ErrMentionsFetchFailed struct {
    Cause error
}

func (e *ErrMentionsFetchFailed) Error() string {
    return fmt.Sprintf("fetching mentions failed: %v", e.Cause)
}

func (e *ErrMentionsFetchFailed) Unwrap() error { return e.Cause }

func NewMentionsFetchFailed(cause error) error {
    return &ErrMentionsFetchFailed{Cause: cause}
}
