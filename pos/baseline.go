package pos

import "text2phenotype.com/hmmtagger/types"

// NewBaseline tags every known word with its most frequent training tag and
// unknown words with the most frequent tag overall.
func NewBaseline(model *Model) Tagger {
	return func(words types.Sentence) types.TaggedSentence {
		tagged := make(types.TaggedSentence, len(words))
		for i, word := range words {
			tag, ok := model.mostFrequent[word]
			if !ok {
				tag = model.defaultTag
			}
			tagged[i] = types.TaggedWord{Word: word, Tag: model.counts.Tags[tag]}
		}
		return tagged
	}
}
