package source

import (
	"fmt"

	"github.com/theirongolddev/cfohelper/internal/model"
)

// Field is one key,value row of a baseline file after coercion.
type Field struct {
	Key   string      `json:"key"`
	Value model.Value `json:"value"`
}

// Identity identifies one version of a source file. Two loads of the same
// path with equal mtime and size are treated as the same baseline.
type Identity struct {
	Path      string `json:"path"`
	MtimeNs   int64  `json:"mtime_ns"`
	SizeBytes int64  `json:"size_bytes"`
}

// Same reports whether o describes the same file version.
func (id Identity) Same(o Identity) bool {
	return id.Path == o.Path && id.MtimeNs == o.MtimeNs && id.SizeBytes == o.SizeBytes
}

// Record is the parsed content of a baseline file, rows in file order.
// Later rows with a repeated key override earlier ones when folded.
type Record struct {
	Identity Identity `json:"identity"`
	Fields   []Field  `json:"fields"`
}

// DiscoveredFile is a key,value CSV found while scanning a directory.
type DiscoveredFile struct {
	Path string
	Name string
	Rows int
}

// ReadError is returned when a source cannot be opened or is not a
// key,value table. It is the only hard failure of a baseline load.
type ReadError struct {
	Path string
	Op   string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }
