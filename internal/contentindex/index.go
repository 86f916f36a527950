// Package contentindex loads the site's content index, a JSON object keyed by document slug.
package contentindex

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
)

const (
	errorStatIndexFormat      = "stat content index %s: %w"
	errorIndexIsDirectoryForm = "content index path %s is a directory"
	errorOpenIndexFormat      = "open content index %s: %w"
	errorDecodeIndexFormat    = "decode content index: %w"
	errorLoadIndexFormat      = "load content index %s: %w"
)

// Source supplies the slugs of every known document. Implementations are read-only.
type Source interface {
	Slugs() []string
}

// Index is an immutable content index. Only keys are consumed; metadata is retained verbatim.
type Index struct {
	entries map[string]json.RawMessage
	slugs   []string
}

// Empty returns an index without documents.
func Empty() *Index {
	return &Index{entries: map[string]json.RawMessage{}}
}

// FromSlugs builds an index whose entries carry empty metadata.
func FromSlugs(slugs ...string) *Index {
	entries := make(map[string]json.RawMessage, len(slugs))
	for _, slug := range slugs {
		entries[slug] = json.RawMessage("{}")
	}
	return newIndex(entries)
}

// Decode reads a content index object from reader. A JSON null decodes to an empty index.
func Decode(reader io.Reader) (*Index, error) {
	var entries map[string]json.RawMessage
	if decodeError := json.NewDecoder(reader).Decode(&entries); decodeError != nil {
		if decodeError == io.EOF {
			return Empty(), nil
		}
		return nil, fmt.Errorf(errorDecodeIndexFormat, decodeError)
	}
	return newIndex(entries), nil
}

// Load reads the content index stored at path. A missing file yields an empty index.
//
// #nosec G304
func Load(path string) (*Index, error) {
	if path == "" {
		return Empty(), nil
	}
	info, statError := os.Stat(path)
	if statError != nil {
		if os.IsNotExist(statError) {
			return Empty(), nil
		}
		return nil, fmt.Errorf(errorStatIndexFormat, path, statError)
	}
	if info.IsDir() {
		return nil, fmt.Errorf(errorIndexIsDirectoryForm, path)
	}
	fileHandle, openError := os.Open(path)
	if openError != nil {
		return nil, fmt.Errorf(errorOpenIndexFormat, path, openError)
	}
	defer fileHandle.Close()

	index, decodeError := Decode(fileHandle)
	if decodeError != nil {
		return nil, fmt.Errorf(errorLoadIndexFormat, path, decodeError)
	}
	return index, nil
}

func newIndex(entries map[string]json.RawMessage) *Index {
	if entries == nil {
		entries = map[string]json.RawMessage{}
	}
	slugs := make([]string, 0, len(entries))
	for slug := range entries {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return &Index{entries: entries, slugs: slugs}
}

// Slugs returns the document slugs in byte order.
func (index *Index) Slugs() []string {
	if index == nil {
		return nil
	}
	return append([]string(nil), index.slugs...)
}

// Metadata returns the raw metadata stored for slug.
func (index *Index) Metadata(slug string) (json.RawMessage, bool) {
	if index == nil {
		return nil, false
	}
	metadata, exists := index.entries[slug]
	return metadata, exists
}

// Len reports the number of documents.
func (index *Index) Len() int {
	if index == nil {
		return 0
	}
	return len(index.slugs)
}

var _ Source = (*Index)(nil)
