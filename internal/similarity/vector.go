package similarity

import "math"

// Vector is a sparse term-frequency vector: token to occurrence count.
// Absent tokens count as zero. A Vector is not modified after Vectorize returns it.
type Vector map[string]int

// Vectorize counts the occurrences of each distinct token.
func Vectorize(tokens []string) Vector {
	v := make(Vector, len(tokens))
	for _, tok := range tokens {
		v[tok]++
	}
	return v
}

// Len returns the number of distinct tokens.
func (v Vector) Len() int { return len(v) }

// Magnitude returns the Euclidean norm of the vector.
func (v Vector) Magnitude() float64 {
	return math.Sqrt(v.sumOfSquares())
}

func (v Vector) sumOfSquares() float64 {
	sum := 0.0
	for _, count := range v {
		c := float64(count)
		sum += c * c
	}
	return sum
}

// Dot sums v[t]*other[t] over the tokens of v.
func (v Vector) Dot(other Vector) float64 {
	dot := 0.0
	for tok, count := range v {
		if oc, ok := other[tok]; ok {
			dot += float64(count) * float64(oc)
		}
	}
	return dot
}
