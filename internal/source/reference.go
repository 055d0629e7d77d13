package source

import (
	"fmt"
	"strings"

	"github.com/ekisa-team/modelload/internal/registry"
)

// Kind classifies a model reference.
type Kind string

const (
	KindLocal       Kind = "local"
	KindURL         Kind = "url"
	KindRegistry    Kind = "registry"
	KindObjectStore Kind = "object_store"
)

const objectStorePrefix = "s3://"

// Reference is a parsed model reference. It is immutable once parsed.
type Reference struct {
	// Raw is the input exactly as given.
	Raw  string
	Kind Kind

	// Registry is set for KindRegistry.
	Registry registry.ID

	// Bucket and Key are set for KindObjectStore.
	Bucket string
	Key    string
}

// NeedsDownload reports whether the reference is fetched over the network.
func (r Reference) NeedsDownload() bool {
	return r.Kind != KindLocal
}

// ParseReference classifies raw. scheme is the registry marker without the
// trailing colon, e.g. "nequip.net".
func ParseReference(raw, scheme string) (Reference, error) {
	if strings.TrimSpace(raw) == "" {
		return Reference{}, fmt.Errorf("empty input: %w", ErrInvalidReference)
	}

	ref := Reference{Raw: raw}

	switch {
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		ref.Kind = KindURL

	case scheme != "" && strings.HasPrefix(raw, scheme+":"):
		id, err := registry.ParseID(raw[len(scheme)+1:])
		if err != nil {
			return Reference{}, fmt.Errorf("%q: %w: %w", raw, ErrInvalidReference, err)
		}
		ref.Kind = KindRegistry
		ref.Registry = id

	case strings.HasPrefix(raw, objectStorePrefix):
		bucket, key, ok := strings.Cut(raw[len(objectStorePrefix):], "/")
		if !ok || bucket == "" || key == "" {
			return Reference{}, fmt.Errorf("%q: want s3://bucket/key: %w", raw, ErrInvalidReference)
		}
		ref.Kind = KindObjectStore
		ref.Bucket = bucket
		ref.Key = key

	default:
		ref.Kind = KindLocal
	}

	return ref, nil
}
