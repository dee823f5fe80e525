package pos

import "text2phenotype.com/hmmtagger/types"

type Tagger func(words types.Sentence) types.TaggedSentence

// NewTagger picks the decoder matching the variant the model was estimated for.
func NewTagger(model *Model) (Tagger, error) {
	if model.NumTags() == 0 {
		return nil, ErrNoTags
	}
	if model.Options.Variant == types.VariantBaseline {
		return NewBaseline(model), nil
	}
	return NewViterbi(model), nil
}

// Decode tags every sentence independently, keeping sentence and word order.
func Decode(model *Model, test []types.Sentence) ([]types.TaggedSentence, error) {
	tagger, err := NewTagger(model)
	if err != nil {
		return nil, err
	}
	res := make([]types.TaggedSentence, len(test))
	for i, sent := range test {
		res[i] = tagger(sent)
	}
	return res, nil
}
