package ingest

import (
	"context"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"go.uber.org/zap"

	"github.com/blackcoderx/specport/pkg/postman"
)

// authScript is the pre-request source injected into generated collections.
// It executes inside the vendor's request-time sandbox; this tool only
// carries the text. The script caches an OAuth2 client-credentials token in
// environment variables and refreshes it one minute before expiry.
const authScript = `// Token caching with automatic refresh
const tokenExpiry = pm.environment.get("token_expiry");
const cachedToken = pm.environment.get("jwt_token");

if (cachedToken && tokenExpiry && Date.now() < parseInt(tokenExpiry)) {
    pm.request.headers.add({
        key: "Authorization",
        value: "Bearer " + cachedToken
    });
    return;
}

const clientId = pm.environment.get("client_id");
const clientSecret = pm.environment.get("client_secret");
const tokenUrl = pm.environment.get("token_url");

if (!clientId || !clientSecret || !tokenUrl) {
    console.log("JWT auth variables not configured. Set client_id, client_secret, and token_url in environment.");
    return;
}

pm.sendRequest({
    url: tokenUrl,
    method: 'POST',
    header: {'Content-Type': 'application/x-www-form-urlencoded'},
    body: {
        mode: 'urlencoded',
        urlencoded: [
            {key: 'grant_type', value: 'client_credentials'},
            {key: 'client_id', value: clientId},
            {key: 'client_secret', value: clientSecret}
        ]
    }
}, (err, response) => {
    if (!err && response.code === 200) {
        const data = response.json();
        pm.environment.set("jwt_token", data.access_token);
        // Cache token with 1 minute buffer before expiry
        pm.environment.set("token_expiry", Date.now() + (data.expires_in * 1000) - 60000);
        pm.request.headers.add({
            key: "Authorization",
            value: "Bearer " + data.access_token
        });
    } else {
        console.error("Failed to fetch JWT token:", err || response.status);
    }
});`

// authMarker identifies a prerequest script as ours. An event whose body
// mentions it is treated as already injected.
const authMarker = "jwt_token"

// injectAuthScript ensures the collection carries the token-caching
// pre-request script. It is idempotent: a prerequest event that already
// references the marker leaves the collection untouched. Other prerequest
// events are replaced; events for other listeners are preserved.
func (p *Pipeline) injectAuthScript(ctx context.Context, collectionID string) error {
	collection, err := p.client.Collections.Get(ctx, collectionID)
	if err != nil {
		return err
	}
	if len(collection) == 0 {
		p.log.Warn("Could not fetch collection", zap.String("collection_id", collectionID))
		return nil
	}

	events, _ := collection["event"].([]any)
	if hasAuthScript(events) {
		p.log.Info("JWT script already present, skipping")
		return nil
	}

	kept := make([]any, 0, len(events)+1)
	for _, e := range events {
		event, ok := e.(map[string]any)
		if ok && event["listen"] == "prerequest" {
			p.logScriptDiff(scriptBody(event))
			continue
		}
		kept = append(kept, e)
	}
	kept = append(kept, authEvent())
	collection["event"] = kept

	return p.client.Collections.Update(ctx, collectionID, collection)
}

// authEvent builds the injected prerequest event, one exec entry per
// script line.
func authEvent() postman.Event {
	return postman.Event{
		Listen: "prerequest",
		Script: postman.Script{
			Type: "text/javascript",
			Exec: strings.Split(authScript, "\n"),
		},
	}
}

// hasAuthScript reports whether an existing prerequest event already
// references the token-cache variable.
func hasAuthScript(events []any) bool {
	for _, e := range events {
		event, ok := e.(map[string]any)
		if !ok || event["listen"] != "prerequest" {
			continue
		}
		if strings.Contains(scriptBody(event), authMarker) {
			return true
		}
	}
	return false
}

// scriptBody flattens an event's script into one string. The vendor stores
// exec as a line array but accepts a plain string too.
func scriptBody(event map[string]any) string {
	script, ok := event["script"].(map[string]any)
	if !ok {
		return ""
	}
	switch exec := script["exec"].(type) {
	case []any:
		lines := make([]string, 0, len(exec))
		for _, line := range exec {
			if s, ok := line.(string); ok {
				lines = append(lines, s)
			}
		}
		return strings.Join(lines, "\n")
	case string:
		return exec
	}
	return ""
}

// logScriptDiff records what a replaced prerequest script changed.
func (p *Pipeline) logScriptDiff(old string) {
	if old == "" {
		return
	}
	edits := udiff.Strings(old, authScript)
	unified, err := udiff.ToUnified("a/prerequest.js", "b/prerequest.js", old, edits, 3)
	if err != nil {
		return
	}
	p.log.Debug("Replacing existing pre-request script", zap.String("diff", unified))
}
