package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"sentinel/internal/classifier"
	"sentinel/internal/domain"
	"sentinel/internal/keywords"
	"sentinel/internal/similarity"
)

var (
	// ErrEmptyDocument is returned when the submitted text is blank.
	ErrEmptyDocument = errors.New("document text is empty")
	// ErrUnsupportedFormat is returned by ScanFile for anything but plain text.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

const (
	StatusDuplicate = "DUPLICATE DETECTED"
	StatusUnique    = "UNIQUE PROJECT"

	unknownProject = "Unknown Project"
)

// Report is the outcome of scanning one candidate document.
type Report struct {
	ID             string                   `json:"id"`
	FileName       string                   `json:"file_name"`
	Score          float64                  `json:"score"`
	MatchedTitle   string                   `json:"matched_title"`
	IsDuplicate    bool                     `json:"is_duplicate"`
	Status         string                   `json:"status"`
	Recommend      bool                     `json:"recommend"`
	Recommendation string                   `json:"recommendation,omitempty"`
	Keywords       []string                 `json:"keywords"`
	Ranking        []domain.ScoredReference `json:"ranking"`
	References     int                      `json:"references"`
	Elapsed        time.Duration            `json:"elapsed_ns"`
	CheckedAt      time.Time                `json:"checked_at"`
}

// Clearance renders the verdict the way the scanner screen labels it.
func (r *Report) Clearance() string {
	if r.IsDuplicate {
		return "DENIED"
	}
	return "GRANTED"
}

// Recorder observes completed scans. The metrics package provides one.
type Recorder interface {
	ObserveScan(r *Report)
}

// Options tunes a ScanService beyond its collaborators.
type Options struct {
	// RecommendThreshold nil selects classifier.DefaultRecommendThreshold.
	RecommendThreshold *float64
	Recorder           Recorder
	Now                func() time.Time
}

// ScanService ties a reference provider to the classifier and keyword
// extractor.
type ScanService struct {
	refs       domain.ReferenceProvider
	classifier *classifier.Classifier
	keywords   *keywords.FrequencyExtractor
	recommend  float64
	recorder   Recorder
	now        func() time.Time
	log        *logrus.Entry
}

// NewScanService wires a scan service.
func NewScanService(refs domain.ReferenceProvider, c *classifier.Classifier, kw *keywords.FrequencyExtractor, opts Options, log *logrus.Entry) *ScanService {
	if c == nil {
		c = classifier.New(classifier.DefaultThreshold, 1)
	}
	if kw == nil {
		kw = keywords.NewFrequencyExtractor(keywords.DefaultLimit)
	}
	recommend := classifier.DefaultRecommendThreshold
	if opts.RecommendThreshold != nil {
		recommend = *opts.RecommendThreshold
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &ScanService{
		refs:       refs,
		classifier: c,
		keywords:   kw,
		recommend:  recommend,
		recorder:   opts.Recorder,
		now:        opts.Now,
		log:        log,
	}
}

// Provider returns the reference provider backing the service.
func (s *ScanService) Provider() domain.ReferenceProvider { return s.refs }

// Scan checks text against every reference and builds a report.
func (s *ScanService) Scan(ctx context.Context, name, text string) (*Report, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDocument
	}
	start := s.now()

	refs, err := s.refs.References(ctx)
	if err != nil {
		return nil, fmt.Errorf("load references from %s: %w", s.refs.Name(), err)
	}

	verdict, ranking := s.classifier.Evaluate(text, refs)

	report := &Report{
		ID:           uuid.NewString(),
		FileName:     name,
		Score:        verdict.Match.Score,
		MatchedTitle: verdict.Match.Title,
		IsDuplicate:  verdict.IsDuplicate,
		Status:       StatusUnique,
		Recommend:    verdict.Match.Score > s.recommend,
		Keywords:     s.keywords.Extract(text),
		Ranking:      ranking,
		References:   len(refs),
		CheckedAt:    start.UTC(),
	}
	if report.IsDuplicate {
		report.Status = StatusDuplicate
	}
	if report.Recommend {
		report.Recommendation = recommendation(report.MatchedTitle)
	}
	report.Elapsed = s.now().Sub(start)

	s.log.WithFields(logrus.Fields{
		"id":         report.ID,
		"file":       name,
		"score":      report.Score,
		"match":      report.MatchedTitle,
		"duplicate":  report.IsDuplicate,
		"references": report.References,
	}).Info("scan complete")

	if s.recorder != nil {
		s.recorder.ObserveScan(report)
	}
	return report, nil
}

// ScanFile reads a plain-text document from disk and scans it.
func (s *ScanService) ScanFile(ctx context.Context, path string) (*Report, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return s.Scan(ctx, filepath.Base(path), string(data))
}

// Compare returns the cosine similarity of two texts.
func (s *ScanService) Compare(a, b string) float64 {
	return similarity.Cosine(a, b)
}

// Keywords returns up to limit keywords; limit <= 0 uses the configured limit.
func (s *ScanService) Keywords(text string, limit int) []string {
	if limit <= 0 {
		return s.keywords.Extract(text)
	}
	return keywords.Top(text, limit)
}

// AddReference stores a new reference project when the provider accepts writes.
func (s *ScanService) AddReference(ctx context.Context, doc domain.Document) error {
	w, ok := s.refs.(domain.ReferenceWriter)
	if !ok {
		return domain.ErrReadOnly
	}
	if strings.TrimSpace(doc.Title) == "" {
		return errors.New("reference title is required")
	}
	if err := w.Add(ctx, doc); err != nil {
		return fmt.Errorf("add reference to %s: %w", s.refs.Name(), err)
	}
	s.log.WithField("title", doc.Title).Info("reference added")
	return nil
}

// References lists the current reference collection.
func (s *ScanService) References(ctx context.Context) ([]domain.Document, error) {
	return s.refs.References(ctx)
}

func recommendation(title string) string {
	if title == "" {
		title = unknownProject
	}
	return fmt.Sprintf("This project is too similar to %q. We suggest focusing on unique architectural patterns or novel datasets to improve innovation score.", title)
}
