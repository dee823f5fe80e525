package pos

import "text2phenotype.com/hmmtagger/types"

func tagged(pairs ...string) types.TaggedSentence {
	sent := make(types.TaggedSentence, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		sent = append(sent, types.TaggedWord{Word: pairs[i], Tag: pairs[i+1]})
	}
	return sent
}

func dogCorpus() []types.TaggedSentence {
	return []types.TaggedSentence{
		tagged("the", "DET", "dog", "NOUN", "runs", "VERB"),
	}
}

func smallCorpus() []types.TaggedSentence {
	return []types.TaggedSentence{
		tagged("the", "DET", "dog", "NOUN", "runs", "VERB", ".", "."),
		tagged("a", "DET", "cat", "NOUN", "sleeps", "VERB", ".", "."),
		tagged("the", "DET", "old", "ADJ", "dog", "NOUN", "runs", "VERB", "quickly", "ADV", ".", "."),
		tagged("dogs", "NOUN", "run", "VERB", "and", "CONJ", "cats", "NOUN", "sleep", "VERB", ".", "."),
		tagged("he", "PRON", "can", "VERB", "open", "VERB", "the", "DET", "can", "NOUN", ".", "."),
		tagged("3", "NUM", "old", "ADJ", "cats", "NOUN", "run", "VERB", ".", "."),
	}
}

func mustEstimate(train []types.TaggedSentence, variant types.Variant) *Model {
	opts, err := OptionsFor(variant)
	if err != nil {
		panic(err)
	}
	m, err := Estimate(train, opts)
	if err != nil {
		panic(err)
	}
	return m
}
