package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v2"
	"go.uber.org/zap"

	"github.com/clientbrief/clientbrief/errors"
	"github.com/clientbrief/clientbrief/internal/domain/entities"
	usecaseErrors "github.com/clientbrief/clientbrief/internal/usecase/errors"
)

// DraftImagePrompt turns a design brief into a single-line image prompt of at
// most 900 characters. Oversized or empty prompts are re-requested within the
// correction budget.
func (c *Client) DraftImagePrompt(ctx context.Context, brief *entities.DesignBrief) (string, error) {
	payload, err := json.Marshal(brief)
	if err != nil {
		return "", fmt.Errorf("encoding design brief: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.policy.MaxCorrections; attempt++ {
		raw, err := c.chat(ctx, "image prompt", imageSystemPrompt, string(payload), 0)
		if err != nil {
			return "", err
		}

		prompt := strings.Join(strings.Fields(raw), " ")
		if prompt == "" {
			lastErr = usecaseErrors.ErrEmptyImagePrompt
			continue
		}
		if len([]rune(prompt)) > maxImagePromptChars {
			lastErr = usecaseErrors.ErrPromptTooLong
			if c.logger != nil {
				c.logger.Warn("image prompt over limit, re-requesting",
					zap.Int("chars", len([]rune(prompt))))
			}
			continue
		}
		return prompt, nil
	}

	return "", errors.ErrResponseInvalid(lastErr)
}

// GenerateImage renders prompt into PNG bytes via the image API. Both inline
// base64 payloads and hosted URLs are handled, depending on the image model.
func (c *Client) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	var image []byte
	err := c.policy.run(ctx, c.logger, "image generation", func() error {
		resp, err := c.api.Images.Generate(ctx, openai.ImageGenerateParams{
			Prompt: prompt,
			Model:  openai.ImageModel(c.imageModel),
			N:      openai.Int(1),
			Size:   openai.ImageGenerateParamsSize(c.imageSize),
		})
		if err != nil {
			return err
		}
		if len(resp.Data) == 0 {
			return usecaseErrors.ErrNoImageData
		}

		data := resp.Data[0]
		switch {
		case data.B64JSON != "":
			decoded, err := base64.StdEncoding.DecodeString(data.B64JSON)
			if err != nil {
				return fmt.Errorf("decoding image payload: %w", err)
			}
			image = decoded
		case data.URL != "":
			downloaded, err := c.download(ctx, data.URL)
			if err != nil {
				return err
			}
			image = downloaded
		default:
			return usecaseErrors.ErrNoImageData
		}
		return nil
	})
	if err != nil {
		return nil, c.wrapTransport(err)
	}
	return image, nil
}

func (c *Client) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("image download failed: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
