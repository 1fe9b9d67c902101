package postman

// Workspace is a workspace as returned by the workspaces endpoints.
type Workspace struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

type workspaceEnvelope struct {
	Workspace *Workspace `json:"workspace"`
}

type workspaceListEnvelope struct {
	Workspaces []Workspace `json:"workspaces"`
}

// Spec is a Spec Hub entry. Content lives server-side; only metadata is
// listed.
type Spec struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

type specListEnvelope struct {
	Specs []Spec `json:"specs"`
}

// SpecFile is one file of a spec resource upload.
type SpecFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

type createSpecRequest struct {
	Name  string     `json:"name"`
	Type  string     `json:"type"`
	Files []SpecFile `json:"files"`
}

type createSpecResponse struct {
	ID string `json:"id"`
}

// CollectionSummary is a collection as listed in a workspace. UID is the
// globally unique form preferred for follow-up calls.
type CollectionSummary struct {
	ID   string `json:"id"`
	UID  string `json:"uid"`
	Name string `json:"name"`
}

type collectionListEnvelope struct {
	Collections []CollectionSummary `json:"collections"`
}

// GenerationOptions controls how the vendor renders a collection from a
// spec. The zero value is not useful; use DefaultGenerationOptions.
type GenerationOptions struct {
	RequestNameSource string `json:"requestNameSource"`
	IndentCharacter   string `json:"indentCharacter"`
	FolderStrategy    string `json:"folderStrategy"`
}

// DefaultGenerationOptions are the fixed options used for every generation.
func DefaultGenerationOptions() GenerationOptions {
	return GenerationOptions{
		RequestNameSource: "Fallback",
		IndentCharacter:   "Tab",
		FolderStrategy:    "Paths",
	}
}

type generateCollectionRequest struct {
	Name    string            `json:"name"`
	Options GenerationOptions `json:"options"`
}

// generateCollectionResponse is a tagged variant: either Collection.ID is
// set (synchronous completion) or TaskID and URL point at a pending task.
type generateCollectionResponse struct {
	Collection struct {
		ID string `json:"id"`
	} `json:"collection"`
	TaskID string `json:"taskId"`
	URL    string `json:"url"`
}

// Task is the state of a server-side async job.
type Task struct {
	ID      string      `json:"id"`
	Status  string      `json:"status"`
	Details TaskDetails `json:"details"`
}

// Task status values reported by the API.
const (
	TaskStatusCompleted = "completed"
	TaskStatusFailed    = "failed"
)

// TaskDetails carries the resources produced by a finished task.
type TaskDetails struct {
	Resources []TaskResource `json:"resources"`
}

// TaskResource identifies one resource produced by a task.
type TaskResource struct {
	ID string `json:"id"`
}

// Event is a collection-level event entry, e.g. a pre-request hook.
type Event struct {
	Listen string `json:"listen"`
	Script Script `json:"script"`
}

// Script is the source carried by an event, one line per exec entry.
type Script struct {
	Type string   `json:"type"`
	Exec []string `json:"exec"`
}

// Environment is an environment as listed in a workspace.
type Environment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type environmentListEnvelope struct {
	Environments []Environment `json:"environments"`
}

type environmentEnvelope struct {
	Environment struct {
		ID string `json:"id"`
	} `json:"environment"`
}

// EnvironmentValue is one variable of an environment. Type "secret" marks
// values that must be redacted on export.
type EnvironmentValue struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	Enabled bool   `json:"enabled"`
	Type    string `json:"type,omitempty"`
}

// SecretType is the value type the vendor masks in its UI and the export
// writer blanks on disk.
const SecretType = "secret"

type environmentPayload struct {
	Environment environmentBody `json:"environment"`
}

type environmentBody struct {
	Name   string             `json:"name"`
	Values []EnvironmentValue `json:"values"`
}
