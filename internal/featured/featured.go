// Package featured serves the featured article. Selection is not
// implemented yet, so the article is always empty.
package featured

import "context"

// Service resolves the featured article.
type Service struct{}

// NewService creates a Service.
func NewService() *Service {
	return &Service{}
}

// Featured returns the featured article as a JSON object. It is currently
// always empty.
func (s *Service) Featured(_ context.Context) (map[string]any, error) {
	return map[string]any{}, nil
}
