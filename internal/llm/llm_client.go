package llm

import "context"

// TextGenerator defines the interface for the external text-generation
// service. Both quiz generation and peer-match analysis go through it.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
