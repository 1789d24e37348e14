// Package similarity scores how alike two plain texts are.
//
// Text is tokenized (lower-cased, punctuation deleted, stop words dropped),
// turned into a term-frequency Vector and compared with cosine similarity.
// Every function is pure: no shared state, no caching, no errors.
package similarity
