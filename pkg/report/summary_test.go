package report

import (
	"strings"
	"testing"
	"time"

	"github.com/blackcoderx/specport/pkg/ingest"
)

func TestWorkspaceURL(t *testing.T) {
	got := WorkspaceURL("ws-1")
	want := "https://www.postman.com/workspace/ws-1"
	if got != want {
		t.Errorf("WorkspaceURL() = %q, want %q", got, want)
	}
}

func TestSummaryContainsLinks(t *testing.T) {
	result := &ingest.Result{
		Title:        "Refund API",
		WorkspaceID:  "ws-1",
		SpecID:       "s-1",
		CollectionID: "u-1",
		EnvIDs: map[string]string{
			"Dev": "e-dev", "QA": "e-qa", "UAT": "e-uat", "Prod": "e-prod",
		},
		ExportedFiles: []string{
			"exports/refund-api-collection.json",
			"exports/env-dev.json",
		},
		Elapsed: 3140 * time.Millisecond,
	}

	out := Summary(result)

	for _, want := range []string{
		"Complete!",
		"https://www.postman.com/workspace/ws-1",
		"https://www.postman.com/specs/s-1",
		"https://www.postman.com/collection/u-1",
		"3.1 seconds",
		"newman run",
		"--reporters cli,junit",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Summary() output missing %q", want)
		}
	}
}

func TestSummaryOmitsCollectionWhenAbsent(t *testing.T) {
	result := &ingest.Result{
		WorkspaceID: "ws-1",
		SpecID:      "s-1",
	}

	out := Summary(result)

	if strings.Contains(out, "/collection/") {
		t.Error("Summary() rendered a collection link without a collection")
	}
	if strings.Contains(out, "newman run") {
		t.Error("Summary() rendered a Newman snippet without exports")
	}
}

func TestNewmanSnippetNeedsBothArtifacts(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  bool
	}{
		{
			name:  "collection and dev environment",
			files: []string{"out/api-collection.json", "out/env-dev.json"},
			want:  true,
		},
		{
			name:  "collection only",
			files: []string{"out/api-collection.json"},
			want:  false,
		},
		{
			name:  "environments only",
			files: []string{"out/env-dev.json", "out/env-prod.json"},
			want:  false,
		},
		{
			name:  "no files",
			files: nil,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newmanSnippet(tt.files)
			if (got != "") != tt.want {
				t.Errorf("newmanSnippet(%v) = %q, want snippet=%v", tt.files, got, tt.want)
			}
		})
	}
}

func TestNewmanSnippetUsesExportedPaths(t *testing.T) {
	got := newmanSnippet([]string{
		"exports/payment-refund-v2-api-collection.json",
		"exports/env-dev.json",
		"exports/env-prod.json",
	})

	if !strings.Contains(got, "payment-refund-v2-api-collection.json") {
		t.Error("snippet does not reference the exported collection")
	}
	if !strings.Contains(got, "env-dev.json") {
		t.Error("snippet does not reference the dev environment")
	}
	if strings.Contains(got, "env-prod.json") {
		t.Error("snippet should target the dev environment only")
	}
}
