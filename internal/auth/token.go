// Package auth provides token resolution for the ScrapeWorks API. The
// platform is token-only: there are no OAuth flows, only a Bearer token
// that can come from explicit configuration, the environment, or the CLI
// config file.
package auth

import (
	"context"
	"errors"
	"os"
	"sync"
)

// Environment variables consulted by EnvTokenSource, in order.
const (
	EnvToken         = "SCRAPEWORKS_API_TOKEN"
	EnvTokenFallback = "SAPI_TOKEN"
)

// Static errors.
var (
	ErrNoToken = errors.New("no API token available")
)

// TokenSource yields the Bearer token for outgoing requests. Implementations
// must be safe for concurrent use.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource returns a fixed token.
type StaticTokenSource struct {
	token string
}

// NewStaticTokenSource wraps a fixed token.
func NewStaticTokenSource(token string) *StaticTokenSource {
	return &StaticTokenSource{token: token}
}

// Token returns the configured token.
func (s *StaticTokenSource) Token(ctx context.Context) (string, error) {
	if s.token == "" {
		return "", ErrNoToken
	}

	return s.token, nil
}

// EnvTokenSource resolves the token from the environment once and caches
// the result for the lifetime of the source.
type EnvTokenSource struct {
	once  sync.Once
	token string
}

// NewEnvTokenSource creates an environment-backed token source.
func NewEnvTokenSource() *EnvTokenSource {
	return &EnvTokenSource{}
}

// Token returns the token from SCRAPEWORKS_API_TOKEN or SAPI_TOKEN.
func (s *EnvTokenSource) Token(ctx context.Context) (string, error) {
	s.once.Do(func() {
		s.token = os.Getenv(EnvToken)
		if s.token == "" {
			s.token = os.Getenv(EnvTokenFallback)
		}
	})

	if s.token == "" {
		return "", ErrNoToken
	}

	return s.token, nil
}

// ChainTokenSource tries each source in order, returning the first token
// found.
type ChainTokenSource struct {
	sources []TokenSource
}

// NewChainTokenSource chains token sources.
func NewChainTokenSource(sources ...TokenSource) *ChainTokenSource {
	return &ChainTokenSource{sources: sources}
}

// Token returns the first available token from the chain.
func (s *ChainTokenSource) Token(ctx context.Context) (string, error) {
	for _, source := range s.sources {
		token, err := source.Token(ctx)
		if err == nil && token != "" {
			return token, nil
		}
	}

	return "", ErrNoToken
}
