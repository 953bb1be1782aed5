// Package id provides centralized ID generation for the backend.
//
// This package offers prefixed ULID generation with:
//   - Lexicographic sortability: IDs created later sort after earlier ones
//   - Prefixed types: Type-specific prefixes for debugging (project_*, folder_*, file_*)
//   - Type safety: Separate types prevent ID misuse
//   - Monotonic entropy: IDs minted within the same millisecond still increase
//
// Design Principles:
//   - ULIDs only: Single ID format across the workspace tree
//   - K-sortable: Creation order is recoverable from the ID alone
//   - Debuggable: Prefixes make logs and persisted blobs readable
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ============================================================================
// Type-Safe ID Wrappers
// ============================================================================

// ProjectID identifies a project in the workspace tree
type ProjectID string

// FolderID identifies a folder within a project
type FolderID string

// FileID identifies a file within a folder
type FileID string

// RequestID identifies an API request or trace span
type RequestID string

// ============================================================================
// ID Prefixes (for debugging and type identification)
// ============================================================================

const (
	ProjectPrefix = "project"
	FolderPrefix  = "folder"
	FilePrefix    = "file"
	RequestPrefix = "req"
)

// ============================================================================
// ULID Generator (Primary)
// ============================================================================

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by monotonic, cryptographically
// secure entropy.
func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// NewGeneratorWithEntropy creates a generator with custom entropy source
// Useful for testing with deterministic entropy
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{
		entropy: entropy,
	}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// ============================================================================
// Typed ID Generators
// ============================================================================

// NewProjectID generates a new project ID
func NewProjectID() ProjectID {
	return ProjectID(Default().GenerateWithPrefix(ProjectPrefix))
}

// NewFolderID generates a new folder ID
func NewFolderID() FolderID {
	return FolderID(Default().GenerateWithPrefix(FolderPrefix))
}

// NewFileID generates a new file ID
func NewFileID() FileID {
	return FileID(Default().GenerateWithPrefix(FilePrefix))
}

// NewRequestID generates a new request ID
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

// ============================================================================
// Type Conversion and Validation
// ============================================================================

func (id ProjectID) String() string { return string(id) }
func (id FolderID) String() string  { return string(id) }
func (id FileID) String() string    { return string(id) }
func (id RequestID) String() string { return string(id) }

// IsValid checks if an ID string is a valid ULID
func IsValid(id string) bool {
	_, err := ulid.Parse(id)
	return err == nil
}

// Parse parses a ULID string, accepting an optional "prefix_" head.
func Parse(id string) (ulid.ULID, error) {
	if i := strings.LastIndexByte(id, '_'); i >= 0 {
		id = id[i+1:]
	}
	return ulid.Parse(id)
}

// Timestamp extracts the timestamp from a (possibly prefixed) ULID
func Timestamp(id string) (time.Time, error) {
	parsed, err := Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}

// HasPrefix reports whether id carries the given type prefix.
func HasPrefix(id, prefix string) bool {
	return strings.HasPrefix(id, prefix+"_")
}
