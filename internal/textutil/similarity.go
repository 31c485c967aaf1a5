package textutil

import "math"

// CosineSimilarity computes the cosine similarity between two fingerprints.
// Returns 0 if either fingerprint is nil or has zero norm. The result is
// clamped to [0, 1]: rounding in the norm product can push the raw ratio
// just past 1 for identical inputs.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	for token, count := range a.tokens {
		if other, ok := b.tokens[token]; ok {
			dot += count * other
		}
	}
	if dot == 0 {
		return 0
	}
	return math.Min(dot/(a.norm*b.norm), 1)
}

// Similarity scores the alignment of a reviewer label against the original
// transcript as a value in [0, 1]. Both inputs are normalized before
// fingerprinting so that whitespace and Unicode composition differences do
// not depress the score. Never fails: unusable input scores 0.
func Similarity(original, label string) float64 {
	a := NewFingerprint(NormalizeLabel(original))
	b := NewFingerprint(NormalizeLabel(label))
	return CosineSimilarity(a, b)
}
