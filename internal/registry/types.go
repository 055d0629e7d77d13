package registry

import "strings"

// ID identifies one version of a model in the remote registry.
type ID struct {
	Group   string
	Name    string
	Version string
}

// String returns the canonical form "group/name:version".
func (id ID) String() string {
	return id.Group + "/" + id.Name + ":" + id.Version
}

// ParseID parses "group/name:version" into an ID.
// Returns ErrInvalidID when any part is missing.
func ParseID(s string) (ID, error) {
	groupName, version, ok := strings.Cut(s, ":")
	if !ok {
		return ID{}, ErrInvalidID
	}

	group, name, ok := strings.Cut(groupName, "/")
	if !ok || strings.Contains(name, "/") {
		return ID{}, ErrInvalidID
	}

	id := ID{
		Group:   strings.TrimSpace(group),
		Name:    strings.TrimSpace(name),
		Version: strings.TrimSpace(version),
	}
	if id.Group == "" || id.Name == "" || id.Version == "" || strings.Contains(id.Version, ":") {
		return ID{}, ErrInvalidID
	}

	return id, nil
}

// Artifact describes where a model's file can be downloaded from.
type Artifact struct {
	DownloadURL string `json:"download_url"`
	HostName    string `json:"host_name"`
}

// ModelInfo is the registry's answer to a download-info lookup.
// It is consumed immediately and never persisted.
type ModelInfo struct {
	Artifact Artifact `json:"artifact"`

	// NewerVersionID is set when the registry knows a newer version of the model.
	NewerVersionID *string `json:"newer_version_id,omitempty"`
}

// HasNewerVersion reports whether the registry advertised a newer version.
func (m *ModelInfo) HasNewerVersion() bool {
	return m.NewerVersionID != nil && *m.NewerVersionID != ""
}
