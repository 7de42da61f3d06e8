package ai

import (
	"context"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"go.uber.org/zap"

	"github.com/clientbrief/clientbrief/errors"
	"github.com/clientbrief/clientbrief/internal/domain/entities"
	usecaseErrors "github.com/clientbrief/clientbrief/internal/usecase/errors"
	"github.com/clientbrief/clientbrief/pkg/config"
)

// Client wraps the OpenAI API for structured transcript analysis and report
// illustration. All calls share one retry policy; responses that fail to
// decode get a bounded number of correction prompts before the run fails
// with a validation error.
type Client struct {
	api         openai.Client
	httpClient  *http.Client
	model       string
	imageModel  string
	imageSize   string
	temperature float64
	maxTokens   int64
	policy      RetryPolicy
	parser      *Parser
	logger      *zap.Logger
}

// NewClient creates an OpenAI client using values from the provided config.
// SDK-internal retries are disabled so the policy owns all retry behaviour.
func NewClient(cfg config.OpenAIConfig, policy RetryPolicy, logger *zap.Logger) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		api:         openai.NewClient(opts...),
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		model:       cfg.Model,
		imageModel:  cfg.ImageModel,
		imageSize:   cfg.ImageSize,
		temperature: cfg.Temperature,
		maxTokens:   int64(cfg.MaxTokens),
		policy:      policy,
		parser:      NewParser(),
		logger:      logger,
	}
}

// Model returns the chat model this client calls.
func (c *Client) Model() string {
	return c.model
}

// AnalyzeDialogue extracts a structured client analysis from a transcript.
func (c *Client) AnalyzeDialogue(ctx context.Context, transcript string) (*entities.ClientAnalysis, error) {
	var analysis entities.ClientAnalysis
	err := c.complete(ctx, "client analysis", analysisSystemPrompt(), analysisUserPrompt(transcript), clientReportSchema, &analysis)
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}

// ExtractDesignBrief extracts a design brief from a transcript.
func (c *Client) ExtractDesignBrief(ctx context.Context, transcript string) (*entities.DesignBrief, error) {
	var brief entities.DesignBrief
	err := c.complete(ctx, "design brief", briefSystemPrompt(), briefUserPrompt(transcript), designBriefSchema, &brief)
	if err != nil {
		return nil, err
	}
	return &brief, nil
}

// complete runs one chat call and parses the response into out. When parsing
// or validation fails it sends correction prompts, up to the policy budget,
// then gives up with a validation error. Transport errors pass through as-is.
func (c *Client) complete(ctx context.Context, operation, system, user, schema string, out Record) error {
	raw, err := c.chat(ctx, operation, system, user, c.temperature)
	if err != nil {
		return err
	}

	parseErr := c.parser.ParseInto(raw, out)
	if parseErr == nil {
		return nil
	}

	for attempt := 1; attempt <= c.policy.MaxCorrections; attempt++ {
		if c.logger != nil {
			c.logger.Warn("response failed validation, asking the model to fix it",
				zap.String("operation", operation),
				zap.Int("correction", attempt),
				zap.Error(parseErr))
		}

		raw, err = c.chat(ctx, operation, "", correctionPrompt(schema, parseErr), 0)
		if err != nil {
			return err
		}
		parseErr = c.parser.ParseInto(raw, out)
		if parseErr == nil {
			return nil
		}
	}

	return errors.ErrResponseInvalid(parseErr)
}

// chat performs one chat completion with retries and returns the raw content.
func (c *Client) chat(ctx context.Context, operation, system, user string, temperature float64) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(user))

	var content string
	err := c.policy.run(ctx, c.logger, operation, func() error {
		resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:       openai.ChatModel(c.model),
			Messages:    messages,
			Temperature: openai.Float(temperature),
			MaxTokens:   openai.Int(c.maxTokens),
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
			return usecaseErrors.ErrEmptyResponse
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", c.wrapTransport(err)
	}

	if c.logger != nil {
		c.logger.Debug("received response",
			zap.String("operation", operation),
			zap.Int("chars", len(content)))
	}
	return content, nil
}

func (c *Client) wrapTransport(err error) error {
	appErr := errors.ErrAIRequestFailed(err)
	if IsAuthError(err) {
		appErr = appErr.WithDetail("hint", "check OPENAI_API_KEY")
	}
	return appErr
}
