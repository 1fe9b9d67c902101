package postman

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/blackcoderx/specport/pkg/openapi"
)

func TestStandardValues(t *testing.T) {
	values := StandardValues("api.payments.example.com", "")

	if len(values) != 6 {
		t.Fatalf("StandardValues() returned %d entries, want 6", len(values))
	}

	byKey := make(map[string]EnvironmentValue, len(values))
	for _, v := range values {
		byKey[v.Key] = v
		if !v.Enabled {
			t.Errorf("value %q is not enabled", v.Key)
		}
	}

	if got := byKey["base_url"].Value; got != "https://api.payments.example.com/v2" {
		t.Errorf("base_url = %q, want https://api.payments.example.com/v2", got)
	}
	if got := byKey["token_url"].Value; got != DefaultTokenURL {
		t.Errorf("token_url = %q, want %q", got, DefaultTokenURL)
	}
	for _, key := range []string{"client_secret", "jwt_token"} {
		if byKey[key].Type != SecretType {
			t.Errorf("%s type = %q, want secret", key, byKey[key].Type)
		}
	}
	for _, key := range []string{"base_url", "client_id", "token_url", "token_expiry"} {
		if byKey[key].Type == SecretType {
			t.Errorf("%s unexpectedly marked secret", key)
		}
	}
}

func TestTierHosts(t *testing.T) {
	tests := []struct {
		name    string
		servers []openapi.Server
		want    map[string]string
	}{
		{
			name: "all tiers declared",
			servers: []openapi.Server{
				{URL: "https://api.payments.example.com", Description: "Production server"},
				{URL: "https://uat.payments.example.com", Description: "UAT environment"},
				{URL: "https://qa.payments.example.com", Description: "QA sandbox"},
				{URL: "https://dev.payments.example.com/v1", Description: "Dev box"},
			},
			want: map[string]string{
				"Prod": "api.payments.example.com",
				"UAT":  "uat.payments.example.com",
				"QA":   "qa.payments.example.com",
				"Dev":  "dev.payments.example.com",
			},
		},
		{
			name: "absent tiers fall back to defaults",
			servers: []openapi.Server{
				{URL: "https://api.payments.example.com", Description: "Production"},
			},
			want: map[string]string{
				"Prod": "api.payments.example.com",
				"UAT":  DefaultTierHosts["UAT"],
				"QA":   DefaultTierHosts["QA"],
				"Dev":  DefaultTierHosts["Dev"],
			},
		},
		{
			name:    "no servers uses all defaults",
			servers: nil,
			want:    DefaultTierHosts,
		},
		{
			name: "first server to claim a tier wins",
			servers: []openapi.Server{
				{URL: "https://first.example.com", Description: "Production A"},
				{URL: "https://second.example.com", Description: "Production B"},
			},
			want: map[string]string{
				"Prod": "first.example.com",
				"UAT":  DefaultTierHosts["UAT"],
				"QA":   DefaultTierHosts["QA"],
				"Dev":  DefaultTierHosts["Dev"],
			},
		},
		{
			name: "prod outranks dev in a mixed description",
			servers: []openapi.Server{
				{URL: "https://mixed.example.com", Description: "dev mirror of prod"},
			},
			want: map[string]string{
				"Prod": "mixed.example.com",
				"UAT":  DefaultTierHosts["UAT"],
				"QA":   DefaultTierHosts["QA"],
				"Dev":  DefaultTierHosts["Dev"],
			},
		},
		{
			name: "case insensitive matching",
			servers: []openapi.Server{
				{URL: "https://upper.example.com", Description: "PRODUCTION"},
				{URL: "https://lower.example.com", Description: "development"},
			},
			want: map[string]string{
				"Prod": "upper.example.com",
				"Dev":  "lower.example.com",
				"UAT":  DefaultTierHosts["UAT"],
				"QA":   DefaultTierHosts["QA"],
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tierHosts(tt.servers)
			if len(got) != len(tt.want) {
				t.Fatalf("tierHosts() returned %d tiers, want %d", len(got), len(tt.want))
			}
			for tier, host := range tt.want {
				if got[tier] != host {
					t.Errorf("tier %s host = %q, want %q", tier, got[tier], host)
				}
			}
		})
	}
}

func TestSetupAllUpdatesAndCreates(t *testing.T) {
	var updates, creates int
	var updatedPayload environmentPayload

	mux := http.NewServeMux()
	mux.HandleFunc("GET /environments", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(environmentListEnvelope{Environments: []Environment{
			{ID: "e-dev", Name: "Dev"},
		}})
	})
	mux.HandleFunc("PUT /environments/e-dev", func(w http.ResponseWriter, r *http.Request) {
		updates++
		json.NewDecoder(r.Body).Decode(&updatedPayload)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /environments", func(w http.ResponseWriter, r *http.Request) {
		creates++
		var payload environmentPayload
		json.NewDecoder(r.Body).Decode(&payload)
		json.NewEncoder(w).Encode(map[string]any{"environment": map[string]any{
			"id": "e-" + payload.Environment.Name,
		}})
	})

	client, _ := newTestClient(t, mux)

	envIDs, err := client.Environments.SetupAll(context.Background(), "ws-1", nil)
	if err != nil {
		t.Fatalf("SetupAll() error = %v", err)
	}

	if updates != 1 {
		t.Errorf("update calls = %d, want 1 (existing Dev)", updates)
	}
	if creates != 3 {
		t.Errorf("create calls = %d, want 3 (QA, UAT, Prod)", creates)
	}
	if len(envIDs) != 4 {
		t.Fatalf("SetupAll() returned %d tiers, want 4: %v", len(envIDs), envIDs)
	}
	if envIDs["Dev"] != "e-dev" {
		t.Errorf("Dev env id = %q, want reused e-dev", envIDs["Dev"])
	}

	// Update rewrites the full variable set, not a delta.
	if len(updatedPayload.Environment.Values) != 6 {
		t.Errorf("update carried %d values, want the full set of 6", len(updatedPayload.Environment.Values))
	}
	if updatedPayload.Environment.Name != "Dev" {
		t.Errorf("update name = %q, want Dev", updatedPayload.Environment.Name)
	}
}

func TestSetupAllOmitsFailedCreation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /environments", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(environmentListEnvelope{})
	})
	mux.HandleFunc("POST /environments", func(w http.ResponseWriter, r *http.Request) {
		var payload environmentPayload
		json.NewDecoder(r.Body).Decode(&payload)
		if payload.Environment.Name == "QA" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"environment": map[string]any{
			"id": "e-" + payload.Environment.Name,
		}})
	})

	client, _ := newTestClient(t, mux)

	envIDs, err := client.Environments.SetupAll(context.Background(), "ws-1", nil)
	if err != nil {
		t.Fatalf("SetupAll() error = %v", err)
	}
	if len(envIDs) != 3 {
		t.Fatalf("SetupAll() returned %d tiers, want 3 with QA omitted: %v", len(envIDs), envIDs)
	}
	if _, ok := envIDs["QA"]; ok {
		t.Error("QA present in result despite failed creation")
	}
	for _, tier := range []string{"Dev", "UAT", "Prod"} {
		if envIDs[tier] == "" {
			t.Errorf("tier %s missing from result", tier)
		}
	}
}

func TestEnvironmentSetupAllUsesServerHosts(t *testing.T) {
	baseURLs := make(map[string]string)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /environments", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(environmentListEnvelope{})
	})
	mux.HandleFunc("POST /environments", func(w http.ResponseWriter, r *http.Request) {
		var payload environmentPayload
		json.NewDecoder(r.Body).Decode(&payload)
		for _, v := range payload.Environment.Values {
			if v.Key == "base_url" {
				baseURLs[payload.Environment.Name] = v.Value
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"environment": map[string]any{
			"id": "e-" + payload.Environment.Name,
		}})
	})

	client, _ := newTestClient(t, mux)

	servers := []openapi.Server{
		{URL: "https://api.payments.example.com", Description: "Production"},
	}
	if _, err := client.Environments.SetupAll(context.Background(), "ws-1", servers); err != nil {
		t.Fatalf("SetupAll() error = %v", err)
	}

	if got := baseURLs["Prod"]; got != "https://api.payments.example.com/v2" {
		t.Errorf("Prod base_url = %q, want https://api.payments.example.com/v2", got)
	}
	if got := baseURLs["Dev"]; got != "https://api-dev.payments.example.com/v2" {
		t.Errorf("Dev base_url = %q, want default-host form", got)
	}
}
