// Package tokenizer estimates how many model tokens a rendered listing consumes.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

// Config captures tokenizer selection parameters provided by the CLI.
type Config struct {
	Model string
}

const (
	// DefaultModel is used when no model is configured.
	DefaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"

	errorFallbackEncodingFormat = "initialize fallback tokenizer: %w"
)

// NewCounter returns a Counter for the requested model together with the
// name of the model or encoding actually used. Unknown models fall back to
// the cl100k_base encoding.
func NewCounter(cfg Config) (Counter, string, error) {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	lowerModel := strings.ToLower(model)

	encoding, err := tiktoken.EncodingForModel(lowerModel)
	if err == nil && encoding != nil {
		return openAICounter{encoding: encoding, name: lowerModel}, model, nil
	}
	fallback, fallbackErr := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackErr != nil {
		return nil, "", fmt.Errorf(errorFallbackEncodingFormat, fallbackErr)
	}
	return openAICounter{encoding: fallback, name: defaultEncodingName}, defaultEncodingName, nil
}
