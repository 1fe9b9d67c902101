package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/blackcoderx/specport/pkg/openapi"
	"github.com/blackcoderx/specport/pkg/postman"
)

// Options configures one ingestion run.
type Options struct {
	SpecPath    string // OpenAPI document to onboard
	WorkspaceID string // optional existing workspace to reuse
	ExportDir   string // target for exported artifacts
	NoExport    bool   // skip the export step entirely
	ForceSync   bool   // refresh an existing generated collection from the spec
}

// Result is what a completed run produced, for the final report.
type Result struct {
	Title         string
	Version       string
	WorkspaceID   string
	SpecID        string
	SpecCreated   bool
	CollectionID  string
	EnvIDs        map[string]string
	ExportedFiles []string
	Elapsed       time.Duration
}

// Pipeline drives the six onboarding steps against the vendor API.
type Pipeline struct {
	client *postman.Client
	log    *zap.Logger
	opts   Options
}

// New builds a Pipeline.
func New(client *postman.Client, log *zap.Logger, opts Options) *Pipeline {
	return &Pipeline{client: client, log: log, opts: opts}
}

// Run executes the full ingestion: workspace, spec, collection,
// environments, auth script, export. Hard failures (workspace, spec,
// collection generation, environment provisioning) abort with an error;
// best-effort steps (script injection, export files) log warnings and let
// the run finish.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	doc, err := openapi.Load(p.opts.SpecPath)
	if err != nil {
		return nil, err
	}
	title := doc.Title()

	p.log.Info("Postman API ingestion")
	p.log.Info(strings.Repeat("=", 50))

	p.log.Info("[1/6] Checking workspace...")
	workspaceID, err := p.client.Workspaces.GetOrCreate(ctx, p.opts.WorkspaceID, title+" Workspace")
	if err != nil {
		return nil, fmt.Errorf("workspace setup failed: %w", err)
	}
	p.log.Info("Using workspace", zap.String("workspace_id", workspaceID))

	p.log.Info("[2/6] Processing spec",
		zap.String("name", title), zap.String("version", doc.Version()))
	specID, specCreated, err := p.client.Specs.Upsert(ctx, workspaceID, doc)
	if err != nil {
		return nil, fmt.Errorf("spec upsert failed: %w", err)
	}
	if specCreated {
		p.log.Info("Created new spec", zap.String("spec_id", specID))
	} else {
		p.log.Info("Using existing spec", zap.String("spec_id", specID))
	}

	p.log.Info("[3/6] Managing collections...")
	collectionID, err := p.client.Collections.Generate(ctx, specID, workspaceID, title, p.opts.ForceSync)
	switch {
	case errors.Is(err, postman.ErrNoGeneratedResource):
		p.log.Warn("Could not generate collection", zap.Error(err))
		collectionID = ""
	case err != nil:
		return nil, fmt.Errorf("collection generation failed: %w", err)
	case collectionID == "":
		p.log.Warn("Could not generate collection")
	default:
		p.log.Info("Collection ready", zap.String("collection_id", collectionID))
	}

	p.log.Info("[4/6] Setting up environments...")
	envIDs, err := p.client.Environments.SetupAll(ctx, workspaceID, doc.Servers())
	if err != nil {
		return nil, fmt.Errorf("environment setup failed: %w", err)
	}
	if len(envIDs) == 0 {
		p.log.Warn("No environments created")
	}

	p.log.Info("[5/6] Configuring JWT auth...")
	if collectionID != "" {
		if err := p.injectAuthScript(ctx, collectionID); err != nil {
			p.log.Warn("Could not add JWT script", zap.Error(err))
		} else {
			p.log.Info("JWT pre-request script added")
		}
	} else {
		p.log.Info("Skipped (no collection)")
	}

	var exported []string
	if !p.opts.NoExport && p.opts.ExportDir != "" {
		p.log.Info("[6/6] Exporting artifacts", zap.String("dir", p.opts.ExportDir))
		exported = p.export(ctx, collectionID, title, envIDs)
	} else {
		p.log.Info("[6/6] Export skipped")
	}

	return &Result{
		Title:         title,
		Version:       doc.Version(),
		WorkspaceID:   workspaceID,
		SpecID:        specID,
		SpecCreated:   specCreated,
		CollectionID:  collectionID,
		EnvIDs:        envIDs,
		ExportedFiles: exported,
		Elapsed:       time.Since(start),
	}, nil
}
