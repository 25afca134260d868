package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/couchcryptid/quakewatch/internal/insight"
	"google.golang.org/genai"
)

// contentGenerator is the slice of genai.Models the client needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client implements insight.Generator using the Gemini API.
type Client struct {
	models contentGenerator
	model  string
	logger *slog.Logger
}

// NewClient creates a Gemini client for model. The API key is required; callers
// decide beforehand whether insights are enabled at all.
func NewClient(ctx context.Context, apiKey, model string, logger *slog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Client{models: client.Models, model: model, logger: logger}, nil
}

// Generate sends prompt as a single user turn and returns the text of the
// first candidate. Failures are returned as *insight.ModelCallError.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", &insight.ModelCallError{Kind: classify(err), Err: fmt.Errorf("gemini generate: %w", err)}
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		reason := "no candidates"
		if len(resp.Candidates) > 0 {
			reason = string(resp.Candidates[0].FinishReason)
		}
		return "", &insight.ModelCallError{Kind: insight.ModelUnknown, Err: fmt.Errorf("gemini returned no text (%s)", reason)}
	}

	c.logger.Debug("gemini reply received", "model", c.model, "chars", len(text))
	return text, nil
}

// classify maps a Gemini SDK error onto the model-call taxonomy.
func classify(err error) insight.ModelErrorKind {
	if code, ok := apiErrorCode(err); ok {
		switch code {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
			return insight.ModelQuotaOrAuth
		case http.StatusRequestTimeout, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return insight.ModelNetwork
		default:
			return insight.ModelUnknown
		}
	}
	return insight.ClassifyModelError(err)
}

func apiErrorCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, true
	}
	return 0, false
}
