package lexicon

import (
	_ "embed"
	"strings"
)

//go:embed default_words.txt
var defaultWords string

// Default returns the built-in lexicon used when no word list is configured.
func Default() *Lexicon {
	entries, err := Parse(strings.NewReader(defaultWords))
	if err != nil {
		// Parse over the embedded list can only fail on a reader error,
		// which strings.Reader never produces.
		panic(err)
	}
	return New(entries)
}
