package postman

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/blackcoderx/specport/pkg/openapi"
)

// DefaultAPIVersion is the path segment appended to environment base URLs.
const DefaultAPIVersion = "v2"

// DefaultTokenURL is the placeholder OAuth2 token endpoint written into
// every environment; users point it at their real identity provider.
const DefaultTokenURL = "https://auth.example.com/oauth2/token"

// Tiers lists the deployment tiers in the order they are provisioned.
var Tiers = []string{"Dev", "QA", "UAT", "Prod"}

// DefaultTierHosts maps each tier to the fallback hostname used when the
// spec's server list does not cover it.
var DefaultTierHosts = map[string]string{
	"Dev":  "api-dev.payments.example.com",
	"QA":   "api-qa.payments.example.com",
	"UAT":  "api-uat.payments.example.com",
	"Prod": "api.payments.example.com",
}

// EnvironmentService manages environments.
type EnvironmentService struct {
	client *Client
}

// List returns the environments in a workspace.
func (s *EnvironmentService) List(ctx context.Context, workspaceID string) ([]Environment, error) {
	var envelope environmentListEnvelope
	if err := s.client.get(ctx, "/environments?workspaceId="+workspaceID, &envelope); err != nil {
		return nil, err
	}
	return envelope.Environments, nil
}

// FindByName returns the ID of the first environment with a matching name,
// or ErrNotFound.
func (s *EnvironmentService) FindByName(ctx context.Context, workspaceID, name string) (string, error) {
	envs, err := s.List(ctx, workspaceID)
	if err != nil {
		return "", err
	}
	for _, env := range envs {
		if env.Name == name {
			return env.ID, nil
		}
	}
	return "", ErrNotFound
}

// StandardValues is the full fixed variable set for an environment pointing
// at host. Every create and update writes this complete set; updates
// replace, never merge.
func StandardValues(host, apiVersion string) []EnvironmentValue {
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	return []EnvironmentValue{
		{Key: "base_url", Value: fmt.Sprintf("https://%s/%s", host, apiVersion), Enabled: true},
		{Key: "client_id", Value: "", Enabled: true},
		{Key: "client_secret", Value: "", Enabled: true, Type: SecretType},
		{Key: "token_url", Value: DefaultTokenURL, Enabled: true},
		{Key: "jwt_token", Value: "", Enabled: true, Type: SecretType},
		{Key: "token_expiry", Value: "", Enabled: true},
	}
}

// Create makes a new environment with the standard variable set and returns
// its ID.
func (s *EnvironmentService) Create(ctx context.Context, workspaceID, name, host string) (string, error) {
	payload := environmentPayload{Environment: environmentBody{
		Name:   name,
		Values: StandardValues(host, ""),
	}}

	var result environmentEnvelope
	if err := s.client.post(ctx, "/environments?workspaceId="+workspaceID, payload, &result); err != nil {
		return "", err
	}
	if result.Environment.ID == "" {
		return "", fmt.Errorf("create environment response carried no id")
	}
	return result.Environment.ID, nil
}

// Update rewrites an existing environment's name and full variable set.
func (s *EnvironmentService) Update(ctx context.Context, id, name, host string) error {
	payload := environmentPayload{Environment: environmentBody{
		Name:   name,
		Values: StandardValues(host, ""),
	}}
	return s.client.put(ctx, "/environments/"+id, payload, nil)
}

// Get fetches the full environment document. The generic map preserves
// every field for export.
func (s *EnvironmentService) Get(ctx context.Context, id string) (map[string]any, error) {
	var envelope struct {
		Environment map[string]any `json:"environment"`
	}
	if err := s.client.get(ctx, "/environments/"+id, &envelope); err != nil {
		return nil, err
	}
	return envelope.Environment, nil
}

// tierHosts derives one host per tier from the declared servers. Each
// description is matched case-insensitively against prod, uat, qa, dev in
// that order, and the first server to claim a tier keeps it. Unclaimed
// tiers fall back to DefaultTierHosts.
func tierHosts(servers []openapi.Server) map[string]string {
	hosts := make(map[string]string, len(Tiers))

	for _, server := range servers {
		desc := strings.ToLower(server.Description)

		var tier string
		switch {
		case strings.Contains(desc, "prod"):
			tier = "Prod"
		case strings.Contains(desc, "uat"):
			tier = "UAT"
		case strings.Contains(desc, "qa"):
			tier = "QA"
		case strings.Contains(desc, "dev"):
			tier = "Dev"
		default:
			continue
		}

		if _, claimed := hosts[tier]; !claimed {
			hosts[tier] = server.Host()
		}
	}

	for tier, host := range DefaultTierHosts {
		if _, ok := hosts[tier]; !ok {
			hosts[tier] = host
		}
	}
	return hosts
}

// SetupAll provisions the four tier environments from the spec's server
// list: existing environments are updated in place, missing ones created.
// The result maps tier name to environment ID; a tier whose creation fails
// is omitted after a warning.
func (s *EnvironmentService) SetupAll(ctx context.Context, workspaceID string, servers []openapi.Server) (map[string]string, error) {
	hosts := tierHosts(servers)
	envIDs := make(map[string]string, len(Tiers))

	for _, tier := range Tiers {
		host := hosts[tier]

		id, err := s.FindByName(ctx, workspaceID, tier)
		switch {
		case err == nil:
			if err := s.Update(ctx, id, tier, host); err != nil {
				return nil, err
			}
			envIDs[tier] = id
			s.client.log.Info("Updated environment", zap.String("name", tier))
		case errors.Is(err, ErrNotFound):
			newID, err := s.Create(ctx, workspaceID, tier, host)
			if err != nil {
				s.client.log.Warn("Failed to create environment",
					zap.String("name", tier), zap.Error(err))
				continue
			}
			envIDs[tier] = newID
			s.client.log.Info("Created environment", zap.String("name", tier))
		default:
			return nil, err
		}
	}

	return envIDs, nil
}
