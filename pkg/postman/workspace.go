package postman

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// DefaultWorkspaceName is used when no workspace name can be derived.
const DefaultWorkspaceName = "API-Ingestion-Workspace"

// WorkspaceService manages workspaces.
type WorkspaceService struct {
	client *Client
}

// Get fetches a workspace by ID. A workspace that does not exist yields
// ErrNotFound rather than a logged API error.
func (s *WorkspaceService) Get(ctx context.Context, id string) (*Workspace, error) {
	var envelope workspaceEnvelope
	if err := s.client.get(ctx, "/workspaces/"+id, &envelope, notFoundOK()); err != nil {
		return nil, err
	}
	if envelope.Workspace == nil {
		return nil, ErrNotFound
	}
	return envelope.Workspace, nil
}

// List returns every workspace visible to the API key.
func (s *WorkspaceService) List(ctx context.Context) ([]Workspace, error) {
	var envelope workspaceListEnvelope
	if err := s.client.get(ctx, "/workspaces", &envelope); err != nil {
		return nil, err
	}
	return envelope.Workspaces, nil
}

// Create makes a new team workspace and returns its ID. An empty
// description gets a templated default.
func (s *WorkspaceService) Create(ctx context.Context, name, description string) (string, error) {
	if description == "" {
		description = fmt.Sprintf("Workspace for %s APIs", name)
	}
	payload := workspaceEnvelope{Workspace: &Workspace{
		Name:        name,
		Type:        "team",
		Description: description,
	}}

	var result workspaceEnvelope
	if err := s.client.post(ctx, "/workspaces", payload, &result); err != nil {
		return "", err
	}
	if result.Workspace == nil || result.Workspace.ID == "" {
		return "", fmt.Errorf("create workspace response carried no id")
	}
	return result.Workspace.ID, nil
}

// GetOrCreate reuses id when it resolves; otherwise it creates a workspace
// named name, falling back to DefaultWorkspaceName. A supplied ID that does
// not resolve logs a warning before creating.
func (s *WorkspaceService) GetOrCreate(ctx context.Context, id, name string) (string, error) {
	if id != "" {
		if _, err := s.Get(ctx, id); err == nil {
			return id, nil
		}
		s.client.log.Warn("Workspace not found, creating new", zap.String("workspace_id", id))
	}

	if name == "" {
		name = DefaultWorkspaceName
	}
	return s.Create(ctx, name, "")
}
