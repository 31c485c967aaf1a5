// Package textutil provides text processing for transcript review: token
// fingerprints and cosine similarity for comparing a reviewer's label
// against the machine transcript, and reviewer label normalization.
//
// Fingerprints use term frequency vectors. Tokenization lowercases the
// input and splits on non-alphanumeric characters; single-character tokens
// are kept because transcript segments are short and every word counts.
package textutil
