package ai

import (
	"context"
	"fmt"
)

// StructuredParser asks a language model a question and decodes its JSON
// answer into out. Instructions set the model's role and output shape;
// prompt carries the per-request input.
type StructuredParser interface {
	Parse(ctx context.Context, instructions, prompt string, out any) error
}

// ProviderError reports a failure from the model provider. Handlers map it
// to an opaque 500 so provider internals never reach clients.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("ai provider error: status %d", e.Status)
	}
	return fmt.Sprintf("ai provider error: %s", e.Message)
}
