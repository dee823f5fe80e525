package pos

import (
	"text2phenotype.com/hmmtagger/types"
	"strings"
)

type suffixRule struct {
	matches func(word string, midSentence bool) bool
	tag     string
}

func endsWithAny(suffixes ...string) func(string, bool) bool {
	return func(word string, _ bool) bool {
		for _, suffix := range suffixes {
			if strings.HasSuffix(word, suffix) {
				return true
			}
		}
		return false
	}
}

// endsWithProper matches a suffix only when the word is longer than the suffix itself.
func endsWithProper(suffix string) func(string, bool) bool {
	return func(word string, _ bool) bool {
		return word != suffix && strings.HasSuffix(word, suffix)
	}
}

func anyOf(preds ...func(string, bool) bool) func(string, bool) bool {
	return func(word string, midSentence bool) bool {
		for _, pred := range preds {
			if pred(word, midSentence) {
				return true
			}
		}
		return false
	}
}

// Evaluated in order, the last matching rule wins.
var suffixRules = []suffixRule{
	{endsWithAny("ly", "hen"), types.TagAdverb},
	{endsWithAny("ing", "ned"), types.TagVerb},
	{endsWithAny("ify", "ted", "ied", "are", "ved", "ned", "sed", "ed"), types.TagVerb},
	{
		anyOf(
			endsWithAny("ish", "ive", "ous", "ful", "ral", "cal", "tic", "ial"),
			endsWithProper("less"),
			endsWithProper("able"),
		),
		types.TagAdjective,
	},
	{endsWithAny("mic"), types.TagAdjective},
	{
		anyOf(
			endsWithAny("ize"),
			func(word string, midSentence bool) bool {
				return midSentence && strings.HasSuffix(word, "ake")
			},
		),
		types.TagVerb,
	},
	{endsWithAny("ing"), types.TagVerb},
}

// GuessTag labels an out-of-vocabulary word from its suffix. midSentence is false
// for the first word of a sentence.
func GuessTag(word string, midSentence bool) string {
	tag := types.TagNoun
	for _, rule := range suffixRules {
		if rule.matches(word, midSentence) {
			tag = rule.tag
		}
	}
	return tag
}
