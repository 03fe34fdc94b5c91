package llm

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/auth"
	"cloud.google.com/go/auth/credentials"
	"google.golang.org/genai"

	"github.com/agentstation/govmatch/pkg/constants"
	"github.com/agentstation/govmatch/pkg/errors"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

const provider = "gemini"

// Backend selects the Gemini API flavor.
type Backend string

const (
	// BackendGemini is the Gemini Developer API, authenticated with an API key.
	BackendGemini Backend = "gemini"
	// BackendVertex is Vertex AI, authenticated with an API key or
	// Application Default Credentials.
	BackendVertex Backend = "vertex"
)

// Config configures a GeminiClient.
type Config struct {
	Backend  Backend
	APIKey   string
	Project  string
	Location string
	Model    string
	Timeout  time.Duration
}

// GeminiClient verifies prompts with Gemini.
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiClient creates a client for cfg.
func NewGeminiClient(ctx context.Context, cfg Config) (*GeminiClient, error) {
	clientConfig, err := genaiConfig(cfg)
	if err != nil {
		return nil, err
	}
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, &errors.ConfigError{Component: provider, Message: "creating client", Err: err}
	}

	c := &GeminiClient{client: client, model: cfg.Model, timeout: cfg.Timeout}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.timeout <= 0 {
		c.timeout = constants.VerifyRequestTimeout
	}
	return c, nil
}

func genaiConfig(cfg Config) (*genai.ClientConfig, error) {
	switch cfg.Backend {
	case BackendGemini, "":
		if cfg.APIKey == "" {
			return nil, &errors.ConfigError{
				Component: provider,
				Message:   "API key required - set GEMINI_API_KEY or GOOGLE_API_KEY",
				Err:       errors.ErrAPIKeyRequired,
			}
		}
		return &genai.ClientConfig{Backend: genai.BackendGeminiAPI, APIKey: cfg.APIKey}, nil

	case BackendVertex:
		if cfg.Project == "" {
			return nil, &errors.ConfigError{
				Component: provider,
				Message:   "project ID not configured - set GOOGLE_CLOUD_PROJECT",
			}
		}
		config := &genai.ClientConfig{
			Backend:  genai.BackendVertexAI,
			Project:  cfg.Project,
			Location: cfg.Location,
		}
		if config.Location == "" {
			config.Location = "us-central1"
		}
		if cfg.APIKey != "" {
			config.APIKey = cfg.APIKey
			return config, nil
		}
		creds, err := detectCredentials()
		if err != nil {
			return nil, err
		}
		config.Credentials = creds
		return config, nil

	default:
		return nil, errors.NewValidationError("backend", cfg.Backend, "must be gemini or vertex")
	}
}

func detectCredentials() (*auth.Credentials, error) {
	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		Scopes: []string{
			"https://www.googleapis.com/auth/cloud-platform",
			"https://www.googleapis.com/auth/generative-language",
		},
	})
	if err != nil {
		return nil, &errors.ConfigError{
			Component: provider,
			Message:   "no valid credentials found - configure Application Default Credentials",
			Err:       err,
		}
	}
	return creds, nil
}

// Model returns the model prompts are sent to.
func (c *GeminiClient) Model() string {
	return c.model
}

// Verify sends one prompt and parses the JSON answer.
func (c *GeminiClient) Verify(ctx context.Context, prompt string) (Verdict, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0),
	})
	if err != nil {
		return Verdict{}, apiError(err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return Verdict{}, &errors.APIError{Provider: provider, Endpoint: c.model, Message: "empty response"}
	}
	return ParseVerdict(text)
}

func apiError(err error) error {
	var gerr genai.APIError
	if errors.As(err, &gerr) {
		return &errors.APIError{Provider: provider, StatusCode: gerr.Code, Message: gerr.Message, Err: err}
	}
	return errors.WrapAPI(provider, 0, err)
}
