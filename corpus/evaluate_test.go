package corpus

import (
	"text2phenotype.com/hmmtagger/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestEvaluate(t *testing.T) {
	train := []types.TaggedSentence{
		{{Word: "the", Tag: "DET"}, {Word: "dog", Tag: "NOUN"}},
	}
	gold := []types.TaggedSentence{
		{{Word: "the", Tag: "DET"}, {Word: "dog", Tag: "NOUN"}, {Word: "barks", Tag: "VERB"}},
		{{Word: "cats", Tag: "NOUN"}},
	}
	predicted := []types.TaggedSentence{
		{{Word: "the", Tag: "DET"}, {Word: "dog", Tag: "NOUN"}, {Word: "barks", Tag: "NOUN"}},
		{{Word: "cats", Tag: "NOUN"}},
	}

	report, err := Evaluate(predicted, gold, train)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 3, report.Correct)
	assert.Equal(t, 2, report.UnseenWords)
	assert.InDelta(t, 0.75, report.Accuracy, 1e-12)
	assert.InDelta(t, 1.0, report.SeenAccuracy, 1e-12)
	assert.InDelta(t, 0.5, report.UnseenAccuracy, 1e-12)
	assert.Equal(t, []Confusion{{Gold: "VERB", Predicted: "NOUN", Count: 1}}, report.TopConfusions)
}

func TestEvaluateShapeMismatch(t *testing.T) {
	gold := []types.TaggedSentence{{{Word: "a", Tag: "DET"}}}

	_, err := Evaluate(nil, gold, nil)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Evaluate([]types.TaggedSentence{{}}, gold, nil)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Evaluate([]types.TaggedSentence{{{Word: "b", Tag: "DET"}}}, gold, nil)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}
