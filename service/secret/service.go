// Package secret stores and reveals encrypted credentials, such as the
// delivery API token, with viant/scy.
package secret

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/scy"
	_ "github.com/viant/scy/kms/blowfish"
)

// DefaultKey is the scy key used when none is given.
const DefaultKey = "blowfish://default"

// Service provides secret management operations using viant/scy
type Service struct {
	scyService *scy.Service
}

// Reveal decrypts a raw secret stored at URL.
func (s *Service) Reveal(ctx context.Context, URL, key string) (string, error) {
	if URL == "" {
		return "", fmt.Errorf("secret URL cannot be empty")
	}
	resource := scy.NewResource(nil, URL, keyOrDefault(key))
	secret, err := s.scyService.Load(ctx, resource)
	if err != nil {
		return "", fmt.Errorf("failed to load secret from %s: %w", URL, err)
	}
	return strings.TrimSpace(secret.String()), nil
}

// Secure encrypts content and stores it at URL.
func (s *Service) Secure(ctx context.Context, content, URL, key string) error {
	if content == "" {
		return fmt.Errorf("no content provided")
	}
	if URL == "" {
		return fmt.Errorf("secret URL cannot be empty")
	}
	resource := scy.NewResource(nil, URL, keyOrDefault(key))
	if err := s.scyService.Store(ctx, scy.NewSecret(content, resource)); err != nil {
		return fmt.Errorf("failed to store encrypted secret: %w", err)
	}
	return nil
}

func keyOrDefault(key string) string {
	if key == "" {
		return DefaultKey
	}
	return key
}

// New creates a new secret service
func New() *Service {
	return &Service{scyService: scy.New()}
}
