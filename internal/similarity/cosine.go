package similarity

import "math"

// Cosine returns the cosine similarity of two texts' term-frequency vectors,
// in [0, 1]. It returns 0 when either text has no tokens.
func Cosine(textA, textB string) float64 {
	tokensA := Tokenize(textA)
	tokensB := Tokenize(textB)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}
	return CosineVectors(Vectorize(tokensA), Vectorize(tokensB))
}

// CosineVectors computes dot(a, b) / (|a| * |b|).
// Returns 0 if either vector has zero magnitude.
func CosineVectors(a, b Vector) float64 {
	sqA := a.sumOfSquares()
	sqB := b.sumOfSquares()
	if sqA == 0 || sqB == 0 {
		return 0
	}
	dot := a.Dot(b)
	if dot == 0 {
		return 0
	}
	// sqrt(sqA*sqB) keeps identical vectors at exactly 1.
	score := dot / math.Sqrt(sqA*sqB)
	if score > 1 {
		return 1
	}
	return score
}
