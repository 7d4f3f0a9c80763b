package oracle

import (
	"context"
	"fmt"
	"strings"
	"time"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"travelbot/models"
	"travelbot/services/refdata"
)

// Client wraps a Gemini generative model and turns chat turns into typed
// directives.
type Client struct {
	model   *genai.GenerativeModel
	catalog *refdata.Catalog
	timeout time.Duration
}

func NewClient(ctx context.Context, apiKey, modelName string, catalog *refdata.Catalog, timeout time.Duration) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{
		model:   client.GenerativeModel(modelName),
		catalog: catalog,
		timeout: timeout,
	}, nil
}

// Respond sends one user turn to the model and parses the reply into a
// directive. Model errors surface as errors; malformed model output does not,
// it comes back as an extraction-failure directive.
func (c *Client) Respond(ctx context.Context, sess *models.BookingSession, userText string) (models.Directive, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := BuildPrompt(c.catalog, sess, userText)
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return models.Directive{}, fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return models.Directive{}, fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return Extract(sb.String()), nil
}
