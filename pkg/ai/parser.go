package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/clientbrief/clientbrief/pkg/validator"
)

// Record is implemented by AI payloads that normalise themselves after
// decoding, before schema validation runs.
type Record interface {
	Normalize()
}

// Parser decodes and validates structured AI responses.
type Parser struct {
	validator *validator.RecordValidator
}

// NewParser creates a new Parser instance.
func NewParser() *Parser {
	return &Parser{validator: validator.New()}
}

// ParseInto decodes raw into out and validates it against the record schema.
func (p *Parser) ParseInto(raw string, out Record) error {
	payload := extractJSON(raw)

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}

	out.Normalize()

	if err := p.validator.Validate(out); err != nil {
		return fmt.Errorf("response does not match schema: %w", err)
	}
	return nil
}

// extractJSON extracts JSON content from markdown code blocks or plain text.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	// The model sometimes wraps the object in a markdown code block.
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	content = strings.TrimSpace(content)

	// Or preface it with prose. Fall back to the outermost brace pair.
	if !strings.HasPrefix(content, "{") {
		start := strings.Index(content, "{")
		end := strings.LastIndex(content, "}")
		if start >= 0 && end > start {
			content = content[start : end+1]
		}
	}

	return content
}
