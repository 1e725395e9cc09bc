// Package ai defines the contract between the advisor and external
// language-model providers, and builds the prompts sent to them.
package ai

import "context"

// Responder produces a free-text completion for a prompt. Implementations
// live in the provider subpackages; the advisor treats any error (transport,
// status, malformed or empty payload) as a signal to fall back to the local
// composer.
type Responder interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Model() string
}
