package schema

import "path/filepath"

// Source identifies where a schema document originated so loaders can operate
// on files, fs.FS entries, or in-memory text without leaking implementation
// details.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile  SourceKind = "file"
	SourceKindFS    SourceKind = "fs"
	SourceKindBytes SourceKind = "bytes"
)

// fileSource identifies on-disk schema documents.
type fileSource struct {
	path string
}

func (s fileSource) Location() string {
	return s.path
}

func (s fileSource) Kind() SourceKind {
	return SourceKindFile
}

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

// fsSource references a path within an fs.FS.
type fsSource struct {
	name string
}

func (s fsSource) Location() string {
	return s.name
}

func (s fsSource) Kind() SourceKind {
	return SourceKindFS
}

// SourceFromFS returns a Source identifying a resource inside an fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

// bytesSource carries schema text already held in memory, typically handed
// over by the external schema-fetch tooling before the text is vendored.
type bytesSource struct {
	label string
	data  []byte
}

func (s bytesSource) Location() string {
	return s.label
}

func (s bytesSource) Kind() SourceKind {
	return SourceKindBytes
}

// Bytes returns a defensive copy of the in-memory payload.
func (s bytesSource) Bytes() []byte {
	return append([]byte(nil), s.data...)
}

// SourceFromBytes returns a Source carrying the schema text itself. The label
// is used for diagnostics only.
func SourceFromBytes(label string, data []byte) Source {
	return bytesSource{label: label, data: append([]byte(nil), data...)}
}
