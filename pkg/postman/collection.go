package postman

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// CollectionService manages collections and their generation from specs.
type CollectionService struct {
	client *Client
}

// FindByName scans the workspace's collections for an exact name match and
// returns the first one, or ErrNotFound.
func (s *CollectionService) FindByName(ctx context.Context, workspaceID, name string) (*CollectionSummary, error) {
	var envelope collectionListEnvelope
	if err := s.client.get(ctx, "/collections?workspaceId="+workspaceID, &envelope); err != nil {
		return nil, err
	}
	for i := range envelope.Collections {
		if envelope.Collections[i].Name == name {
			return &envelope.Collections[i], nil
		}
	}
	return nil, ErrNotFound
}

// Generate produces a collection named name from the spec. An existing
// collection of that name is reused as-is unless force is set, in which
// case it is refreshed from the current spec content. The vendor answers
// either synchronously (collection in the response) or with an async task
// that is polled to completion.
func (s *CollectionService) Generate(ctx context.Context, specID, workspaceID, name string, force bool) (string, error) {
	existing, err := s.FindByName(ctx, workspaceID, name)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return "", err
	}

	if existing != nil {
		id := existing.UID
		if id == "" {
			id = existing.ID
		}
		if !force {
			s.client.log.Info("Found existing collection", zap.String("name", name))
			return id, nil
		}
		s.client.log.Info("Refreshing existing collection from spec", zap.String("name", name))
		return s.regenerate(ctx, specID, id, name)
	}

	payload := generateCollectionRequest{
		Name:    name,
		Options: DefaultGenerationOptions(),
	}

	var result generateCollectionResponse
	endpoint := fmt.Sprintf("/specs/%s/generations/collection", specID)
	if err := s.client.post(ctx, endpoint, payload, &result); err != nil {
		return "", err
	}
	return s.resolveGeneration(ctx, &result)
}

// regenerate re-runs generation into an existing linked collection so its
// requests track the current spec content.
func (s *CollectionService) regenerate(ctx context.Context, specID, collectionID, name string) (string, error) {
	payload := generateCollectionRequest{
		Name:    name,
		Options: DefaultGenerationOptions(),
	}

	var result generateCollectionResponse
	endpoint := fmt.Sprintf("/specs/%s/generations/collection/%s", specID, collectionID)
	if err := s.client.put(ctx, endpoint, payload, &result); err != nil {
		return "", err
	}

	id, err := s.resolveGeneration(ctx, &result)
	if err != nil {
		return "", err
	}
	if id == "" {
		// Some refresh responses carry no body; the collection keeps its id.
		return collectionID, nil
	}
	return id, nil
}

// resolveGeneration unpacks the sync/async duality of a generation
// response: an embedded collection ID wins, otherwise the task is polled
// and the first generated resource taken.
func (s *CollectionService) resolveGeneration(ctx context.Context, result *generateCollectionResponse) (string, error) {
	if result.TaskID == "" {
		return result.Collection.ID, nil
	}

	s.client.log.Info("Generating collection (async)")
	task, err := s.client.Tasks.Poll(ctx, result.URL)
	if err != nil {
		return "", err
	}
	if len(task.Details.Resources) == 0 {
		s.client.log.Error("No collection in task result", zap.Any("task", task))
		return "", ErrNoGeneratedResource
	}
	return task.Details.Resources[0].ID, nil
}

// Get fetches the full collection document. The generic map preserves
// every field for read-modify-write updates.
func (s *CollectionService) Get(ctx context.Context, id string) (map[string]any, error) {
	var envelope struct {
		Collection map[string]any `json:"collection"`
	}
	if err := s.client.get(ctx, "/collections/"+id, &envelope); err != nil {
		return nil, err
	}
	return envelope.Collection, nil
}

// Update replaces the whole collection document. Callers must fetch,
// modify, and write back; partial updates are not merged.
func (s *CollectionService) Update(ctx context.Context, id string, doc map[string]any) error {
	payload := map[string]any{"collection": doc}
	return s.client.put(ctx, "/collections/"+id, payload, nil)
}
