// Package estimate provides the token-count heuristic used at the request
// boundary. Roughly four characters map to one token for English text;
// callers that have real tokenizer counts should prefer those.
package estimate

import "unicode/utf8"

// DefaultCharsPerToken is the assumed character-to-token ratio.
const DefaultCharsPerToken = 4.0

// Estimator converts text length into an approximate token count.
type Estimator struct {
	// CharsPerToken overrides the default ratio when positive.
	CharsPerToken float64
}

// Tokens estimates the number of tokens in text. Counts runes, not bytes,
// so multibyte text does not inflate the estimate.
func (e Estimator) Tokens(text string) int {
	ratio := e.CharsPerToken
	if ratio <= 0 {
		ratio = DefaultCharsPerToken
	}
	runes := utf8.RuneCountInString(text)
	return int(float64(runes)/ratio + 0.5)
}

// Tokens estimates the token count of text using the default ratio.
func Tokens(text string) int {
	return Estimator{}.Tokens(text)
}
