package pos

import (
	"text2phenotype.com/hmmtagger/types"
	"unicode"
)

type correction struct {
	applies func(word string) bool
	tag     string
}

var corrections = []correction{
	{isDigits, types.TagNumber},
	{func(word string) bool { return word == "an" || word == "AN" }, types.TagDeterminer},
	{func(word string) bool { return word == "and" }, types.TagConjunction},
}

func isDigits(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Correct overrides the decoded tag of words whose tag is fixed regardless of context.
func Correct(sent types.TaggedSentence) {
	for i := range sent {
		for _, c := range corrections {
			if c.applies(sent[i].Word) {
				sent[i].Tag = c.tag
				break
			}
		}
	}
}
