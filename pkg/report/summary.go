package report

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/blackcoderx/specport/pkg/ingest"
)

// Minimal color palette
var (
	DimColor     = lipgloss.Color("#6c6c6c")
	TextColor    = lipgloss.Color("#e0e0e0")
	AccentColor  = lipgloss.Color("#7aa2f7")
	SuccessColor = lipgloss.Color("#9ece6a")
)

// Summary block styles
var (
	HeadingStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(DimColor)

	LinkStyle = lipgloss.NewStyle().
			Foreground(AccentColor).
			Underline(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	RuleStyle = lipgloss.NewStyle().
			Foreground(DimColor)
)

// WorkspaceURL returns the browser URL for a workspace.
func WorkspaceURL(id string) string {
	return "https://www.postman.com/workspace/" + id
}

func specURL(id string) string {
	return "https://www.postman.com/specs/" + id
}

func collectionURL(id string) string {
	return "https://www.postman.com/collection/" + id
}

// Summary renders the styled end-of-run block for a successful run.
func Summary(result *ingest.Result) string {
	var b strings.Builder

	b.WriteString(RuleStyle.Render(strings.Repeat("=", 50)))
	b.WriteString("\n")
	b.WriteString(HeadingStyle.Render("Complete!"))
	b.WriteString("\n")

	writeLink(&b, "Workspace", WorkspaceURL(result.WorkspaceID))
	writeLink(&b, "Spec", specURL(result.SpecID))
	if result.CollectionID != "" {
		writeLink(&b, "Collection", collectionURL(result.CollectionID))
	}
	writeRow(&b, "Environments", fmt.Sprintf("%d", len(result.EnvIDs)))
	if len(result.ExportedFiles) > 0 {
		writeRow(&b, "Exported", fmt.Sprintf("%d files", len(result.ExportedFiles)))
		for _, path := range result.ExportedFiles {
			b.WriteString("      ")
			b.WriteString(ValueStyle.Render(path))
			b.WriteString("\n")
		}
	}
	writeRow(&b, "Time", fmt.Sprintf("%.1f seconds", result.Elapsed.Seconds()))

	if snippet := newmanSnippet(result.ExportedFiles); snippet != "" {
		b.WriteString("\n")
		b.WriteString(snippet)
		b.WriteString("\n")
	}

	return b.String()
}

// CopyWorkspaceLink puts the workspace URL on the system clipboard.
// Failures are ignored.
func CopyWorkspaceLink(id string) {
	_ = clipboard.WriteAll(WorkspaceURL(id))
}

// newmanSnippet builds the copy-pasteable Newman command for the exported
// artifacts, rendered as markdown when the terminal supports it.
func newmanSnippet(files []string) string {
	collection := fileWithSuffix(files, "-collection.json")
	envDev := fileWithSuffix(files, "env-dev.json")
	if collection == "" || envDev == "" {
		return ""
	}

	md := fmt.Sprintf(
		"# Run tests with Newman:\n\n```bash\nnewman run %s \\\n    -e %s \\\n    --reporters cli,junit\n```\n",
		collection, envDev,
	)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}

func fileWithSuffix(files []string, suffix string) string {
	for _, f := range files {
		if strings.HasSuffix(f, suffix) {
			return f
		}
	}
	return ""
}

func writeLink(b *strings.Builder, label, url string) {
	b.WriteString("   ")
	b.WriteString(LabelStyle.Render(label + ":"))
	b.WriteString(" ")
	b.WriteString(LinkStyle.Render(url))
	b.WriteString("\n")
}

func writeRow(b *strings.Builder, label, value string) {
	b.WriteString("   ")
	b.WriteString(LabelStyle.Render(label + ":"))
	b.WriteString(" ")
	b.WriteString(ValueStyle.Render(value))
	b.WriteString("\n")
}
