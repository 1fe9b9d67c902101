package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/blackcoderx/specport/pkg/postman"
)

// export writes the collection and every provisioned environment under the
// export directory. Individual files are best-effort: a failed fetch or
// write warns and moves on so the rest still lands on disk.
func (p *Pipeline) export(ctx context.Context, collectionID, title string, envIDs map[string]string) []string {
	var files []string

	if collectionID != "" {
		path := filepath.Join(p.opts.ExportDir, Slugify(title)+"-collection.json")
		if err := p.exportCollection(ctx, collectionID, path); err != nil {
			p.log.Warn("Failed to export collection", zap.Error(err))
		} else {
			files = append(files, path)
			p.log.Info("Exported " + path)
		}
	}

	for _, tier := range postman.Tiers {
		id, ok := envIDs[tier]
		if !ok {
			continue
		}
		path := filepath.Join(p.opts.ExportDir, "env-"+strings.ToLower(tier)+".json")
		if err := p.exportEnvironment(ctx, id, path); err != nil {
			p.log.Warn("Failed to export environment", zap.String("name", tier), zap.Error(err))
			continue
		}
		files = append(files, path)
		p.log.Info("Exported " + path)
	}

	return files
}

// exportCollection fetches the full collection and writes it wrapped under
// a top-level collection key.
func (p *Pipeline) exportCollection(ctx context.Context, id, path string) error {
	doc, err := p.client.Collections.Get(ctx, id)
	if err != nil {
		return err
	}
	return writeJSON(path, map[string]any{"collection": doc})
}

// exportEnvironment fetches the full environment, blanks secret-typed
// values, and writes it wrapped under a top-level environment key.
func (p *Pipeline) exportEnvironment(ctx context.Context, id, path string) error {
	doc, err := p.client.Environments.Get(ctx, id)
	if err != nil {
		return err
	}
	redactSecrets(doc)
	return writeJSON(path, map[string]any{"environment": doc})
}

// redactSecrets empties the value of every secret-typed variable in an
// environment document. Everything else is left as fetched.
func redactSecrets(env map[string]any) {
	values, ok := env["values"].([]any)
	if !ok {
		return
	}
	for _, v := range values {
		entry, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if entry["type"] == postman.SecretType {
			entry["value"] = ""
		}
	}
}

func writeJSON(path string, payload any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Slugify turns a display name into a filename-safe slug: lowercased,
// spaces and dots become dashes, every other non-alphanumeric rune drops.
func Slugify(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, ".", "-")

	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
