package domain

import (
	"context"
	"errors"
)

// Document is a reference record: a project title and its abstract.
// An empty Abstract means the record has no abstract and cannot be scored.
type Document struct {
	Title    string `json:"title" yaml:"title"`
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`
}

// HasAbstract reports whether the document carries text that can be scored.
func (d Document) HasAbstract() bool { return d.Abstract != "" }

// MatchResult is the best-scoring reference for a candidate.
// Title is empty when no reference could be scored.
type MatchResult struct {
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// Verdict pairs the best match with the duplicate decision.
type Verdict struct {
	Match       MatchResult `json:"match"`
	IsDuplicate bool        `json:"is_duplicate"`
}

// ScoredReference is one reference's similarity to the candidate.
// Index is the reference's position in the scanned collection.
type ScoredReference struct {
	Index int     `json:"index"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// ReferenceProvider supplies the reference collection before a scan.
// Implementations return records in a stable order.
type ReferenceProvider interface {
	Name() string
	References(ctx context.Context) ([]Document, error)
}

// ReferenceWriter is implemented by providers that can store new references.
type ReferenceWriter interface {
	Add(ctx context.Context, doc Document) error
}

// ErrReadOnly is returned when adding a reference to a provider that cannot store one.
var ErrReadOnly = errors.New("reference provider is read-only")
