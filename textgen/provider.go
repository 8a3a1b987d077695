// Package textgen wraps the external text-completion collaborators behind
// one capability interface, with ordered fallback between providers.
package textgen

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// Provider generates free text from a prompt. Implementations own their
// transport and credentials; the chain owns ordering and timeouts.
type Provider interface {
	Name() string
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

var (
	// ErrNotConfigured means no provider was set up at all — distinct
	// from configured-but-failing so the caller can show the right
	// remediation message.
	ErrNotConfigured = errors.New("no text generation provider configured")

	// ErrAllProvidersFailed means every configured provider errored,
	// timed out, or returned empty text.
	ErrAllProvidersFailed = errors.New("all text generation providers failed")
)

// Chain tries providers in a fixed order with an independent timeout per
// attempt. The first non-empty reply wins; a failed provider is logged and
// skipped, never retried within the request.
type Chain struct {
	providers []Provider
	timeout   time.Duration
}

// NewChain builds a fallback chain. Order of providers is the fallback
// order.
func NewChain(perProviderTimeout time.Duration, providers ...Provider) *Chain {
	return &Chain{providers: providers, timeout: perProviderTimeout}
}

// Configured reports whether at least one provider is available.
func (c *Chain) Configured() bool {
	return c != nil && len(c.providers) > 0
}

// Generate runs the fallback chain for one prompt.
func (c *Chain) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	for _, p := range c.providers {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		text, err := p.Generate(attemptCtx, systemPrompt, userPrompt)
		cancel()

		if err != nil {
			log.Printf("⚠️  [TEXTGEN] provider %s failed: %v", p.Name(), err)
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			log.Printf("⚠️  [TEXTGEN] provider %s returned empty text", p.Name())
			continue
		}
		return text, nil
	}

	return "", fmt.Errorf("tried %d provider(s): %w", len(c.providers), ErrAllProvidersFailed)
}
