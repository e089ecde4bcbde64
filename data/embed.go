// Package data embeds the lexicon tables.
package data

import _ "embed"

// EnglishLexicon is the YAML source of the English number lexicon.
//
//go:embed lexicon/en.yaml
var EnglishLexicon []byte
