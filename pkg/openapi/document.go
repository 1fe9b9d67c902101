package openapi

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Server is one entry of an OpenAPI servers list.
type Server struct {
	URL         string `yaml:"url"`
	Description string `yaml:"description"`
}

// Host returns the server hostname with scheme and path stripped,
// e.g. "https://api.example.com/v1" -> "api.example.com".
func (s Server) Host() string {
	host := strings.TrimPrefix(s.URL, "https://")
	host = strings.TrimPrefix(host, "http://")
	if i := strings.IndexByte(host, '/'); i >= 0 {
		host = host[:i]
	}
	return host
}

// Document is a loaded OpenAPI file. The raw bytes are kept exactly as read
// so uploads carry the author's original content.
type Document struct {
	path string
	raw  []byte
	meta metadata
}

type metadata struct {
	Info struct {
		Title   string `yaml:"title"`
		Version string `yaml:"version"`
	} `yaml:"info"`
	Servers []Server `yaml:"servers"`
}

// Load reads and parses an OpenAPI document. YAML and JSON input both work
// since JSON is valid YAML.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec file: %w", err)
	}

	doc := &Document{path: path, raw: data}
	if err := yaml.Unmarshal(data, &doc.meta); err != nil {
		return nil, fmt.Errorf("failed to parse spec file: %w", err)
	}

	return doc, nil
}

// Raw returns the unmodified file content.
func (d *Document) Raw() []byte { return d.raw }

// Path returns the filesystem path the document was loaded from.
func (d *Document) Path() string { return d.path }

// Title returns info.title, falling back to the filename stem.
func (d *Document) Title() string {
	if d.meta.Info.Title != "" {
		return d.meta.Info.Title
	}
	base := filepath.Base(d.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Version returns info.version, defaulting to "1.0.0".
func (d *Document) Version() string {
	if d.meta.Info.Version != "" {
		return d.meta.Info.Version
	}
	return "1.0.0"
}

// Servers returns the declared servers in document order.
func (d *Document) Servers() []Server {
	return d.meta.Servers
}
