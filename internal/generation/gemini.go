package generation

import (
    "context"
    "fmt"

    "google.golang.org/genai"
)

const (
    TextModel  = "gemini-2.5-flash"
    ImageModel = "imagen-3.0-generate-002"
)

// Client wraps the Gemini API behind the two capabilities the pipelines consume:
// text generation and image generation.
type Client struct {
    genai      *genai.Client
    textModel  string
    imageModel string
}

func NewClient(ctx context.Context, apiKey string) (*Client, error) {
    c, err := genai.NewClient(ctx, &genai.ClientConfig{
        APIKey:  apiKey,
        Backend: genai.BackendGeminiAPI,
    })
    if err != nil {
        return nil, fmt.Errorf("failed to create gemini client: %w", err)
    }
    return &Client{
        genai:      c,
        textModel:  TextModel,
        imageModel: ImageModel,
    }, nil
}

func (c *Client) GenerateText(ctx context.Context, prompt, systemInstruction string) (string, error) {
    var config *genai.GenerateContentConfig
    if systemInstruction != "" {
        config = &genai.GenerateContentConfig{
            SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
        }
    }

    resp, err := c.genai.Models.GenerateContent(ctx, c.textModel, genai.Text(prompt), config)
    if err != nil {
        return "", err
    }

    text := resp.Text()
    if text == "" {
        return "", fmt.Errorf("model %s returned an empty response", c.textModel)
    }
    return text, nil
}

func (c *Client) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
    resp, err := c.genai.Models.GenerateImages(ctx, c.imageModel, prompt, &genai.GenerateImagesConfig{
        NumberOfImages: 1,
    })
    if err != nil {
        return nil, err
    }
    if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
        return nil, fmt.Errorf("model %s returned no images", c.imageModel)
    }
    return resp.GeneratedImages[0].Image.ImageBytes, nil
}
