package postman

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/blackcoderx/specport/pkg/openapi"
)

// SpecService manages Spec Hub resources.
type SpecService struct {
	client *Client
}

// List returns the specs in a workspace.
func (s *SpecService) List(ctx context.Context, workspaceID string) ([]Spec, error) {
	var envelope specListEnvelope
	if err := s.client.get(ctx, "/specs?workspaceId="+workspaceID, &envelope); err != nil {
		return nil, err
	}
	return envelope.Specs, nil
}

// FindByName scans the workspace for a spec with an exactly matching name.
// The first match wins; absence yields ErrNotFound.
func (s *SpecService) FindByName(ctx context.Context, workspaceID, name string) (*Spec, error) {
	specs, err := s.List(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	for i := range specs {
		if specs[i].Name == name {
			return &specs[i], nil
		}
	}
	return nil, ErrNotFound
}

// Create uploads content as a new single-file OpenAPI 3.0 spec and returns
// its ID.
func (s *SpecService) Create(ctx context.Context, workspaceID, name string, content []byte) (string, error) {
	payload := createSpecRequest{
		Name: name,
		Type: "OPENAPI:3.0",
		Files: []SpecFile{
			{Path: "openapi.yaml", Content: string(content)},
		},
	}

	var result createSpecResponse
	if err := s.client.post(ctx, "/specs?workspaceId="+workspaceID, payload, &result); err != nil {
		return "", err
	}
	if result.ID == "" {
		return "", fmt.Errorf("create spec response carried no id")
	}
	return result.ID, nil
}

// Upsert reuses an existing spec named after the document's title, creating
// one from the raw file content when absent. Existing spec content is left
// untouched. The created flag reports which path was taken.
func (s *SpecService) Upsert(ctx context.Context, workspaceID string, doc *openapi.Document) (id string, created bool, err error) {
	name := doc.Title()

	existing, err := s.FindByName(ctx, workspaceID, name)
	if err == nil {
		s.client.log.Info("Found existing spec", zap.String("name", name))
		return existing.ID, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", false, err
	}

	id, err = s.Create(ctx, workspaceID, name, doc.Raw())
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}
