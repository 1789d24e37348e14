package classifier

import (
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"sentinel/internal/domain"
	"sentinel/internal/similarity"
)

const (
	// DefaultThreshold is the score a candidate must exceed to be a duplicate.
	DefaultThreshold = 0.6
	// DefaultRecommendThreshold is the informational bound above which callers
	// suggest the author differentiate the project. It is independent of
	// DefaultThreshold.
	DefaultRecommendThreshold = 0.5
)

// Classify scores candidate against every reference with an abstract and
// returns the best match. The first reference reaching the maximum score wins.
// With no scorable reference the match is empty and the score 0.
func Classify(candidate string, refs []domain.Document, threshold float64) domain.Verdict {
	cand := candidateVector(candidate)
	best := domain.MatchResult{}
	for _, ref := range refs {
		if !ref.HasAbstract() {
			continue
		}
		score := scoreAgainst(cand, ref.Abstract)
		if score > best.Score {
			best = domain.MatchResult{Title: ref.Title, Score: score}
		}
	}
	return verdict(best, threshold)
}

// IsDuplicate applies the strict duplicate rule: score > threshold.
func IsDuplicate(score, threshold float64) bool {
	return score > threshold
}

func verdict(best domain.MatchResult, threshold float64) domain.Verdict {
	return domain.Verdict{Match: best, IsDuplicate: IsDuplicate(best.Score, threshold)}
}

// candidateVector returns nil when the candidate has no tokens.
func candidateVector(text string) similarity.Vector {
	tokens := similarity.Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	return similarity.Vectorize(tokens)
}

// scoreAgainst reuses the candidate's vector; the result equals
// similarity.Cosine(candidate, abstract).
func scoreAgainst(cand similarity.Vector, abstract string) float64 {
	if cand == nil {
		return 0
	}
	tokens := similarity.Tokenize(abstract)
	if len(tokens) == 0 {
		return 0
	}
	return similarity.CosineVectors(cand, similarity.Vectorize(tokens))
}

// Classifier is a configured duplicate classifier. With Workers > 1 the
// references are scored concurrently and merged in collection order, so
// results are identical to the sequential scan.
type Classifier struct {
	threshold float64
	workers   int
}

// New creates a Classifier. A negative threshold selects DefaultThreshold; 0 is
// honoured and flags any overlap. Workers < 0 selects GOMAXPROCS and
// workers <= 1 scans sequentially.
func New(threshold float64, workers int) *Classifier {
	if threshold < 0 {
		threshold = DefaultThreshold
	}
	if workers < 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Classifier{threshold: threshold, workers: workers}
}

// Threshold returns the duplicate threshold in use.
func (c *Classifier) Threshold() float64 { return c.threshold }

// Classify scores candidate against refs and applies the configured threshold.
func (c *Classifier) Classify(candidate string, refs []domain.Document) domain.Verdict {
	if c.workers <= 1 {
		return Classify(candidate, refs, c.threshold)
	}
	return verdict(bestOf(refs, c.scoreAll(candidate, refs)), c.threshold)
}

// Rank returns the score of every reference that has an abstract, highest
// first. Equal scores keep collection order.
func (c *Classifier) Rank(candidate string, refs []domain.Document) []domain.ScoredReference {
	return ranked(refs, c.scoreAll(candidate, refs))
}

// Evaluate returns both Classify and Rank results from a single scoring pass.
func (c *Classifier) Evaluate(candidate string, refs []domain.Document) (domain.Verdict, []domain.ScoredReference) {
	scores := c.scoreAll(candidate, refs)
	return verdict(bestOf(refs, scores), c.threshold), ranked(refs, scores)
}

// bestOf picks the first reference holding the maximum score.
func bestOf(refs []domain.Document, scores []float64) domain.MatchResult {
	best := domain.MatchResult{}
	for i, ref := range refs {
		if scores[i] > best.Score {
			best = domain.MatchResult{Title: ref.Title, Score: scores[i]}
		}
	}
	return best
}

func ranked(refs []domain.Document, scores []float64) []domain.ScoredReference {
	out := make([]domain.ScoredReference, 0, len(refs))
	for i, ref := range refs {
		if !ref.HasAbstract() {
			continue
		}
		out = append(out, domain.ScoredReference{Index: i, Title: ref.Title, Score: scores[i]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// scoreAll returns one score per reference; references without an abstract
// score 0.
func (c *Classifier) scoreAll(candidate string, refs []domain.Document) []float64 {
	cand := candidateVector(candidate)
	scores := make([]float64, len(refs))
	if cand == nil {
		return scores
	}
	if c.workers <= 1 || len(refs) < 2 {
		for i, ref := range refs {
			if ref.HasAbstract() {
				scores[i] = scoreAgainst(cand, ref.Abstract)
			}
		}
		return scores
	}

	var g errgroup.Group
	g.SetLimit(c.workers)
	for i := range refs {
		if !refs[i].HasAbstract() {
			continue
		}
		i := i
		g.Go(func() error {
			// cand is only read; each goroutine writes its own slot.
			scores[i] = scoreAgainst(cand, refs[i].Abstract)
			return nil
		})
	}
	_ = g.Wait()
	return scores
}
