package pos

import (
	"text2phenotype.com/hmmtagger/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func TestTagger(t *testing.T) {
	t.Run("No tags", testNoTags)
	t.Run("Baseline picks most frequent tag", testBaseline)
	t.Run("Variant dispatch", testVariantDispatch)
}

func testNoTags(t *testing.T) {
	for _, variant := range allVariants {
		m := mustEstimate(nil, variant)
		_, err := Decode(m, []types.Sentence{{"anything"}})
		require.ErrorIs(t, err, ErrNoTags)

		_, err = NewTagger(m)
		require.ErrorIs(t, err, ErrNoTags)
	}
}

func testBaseline(t *testing.T) {
	m := mustEstimate(smallCorpus(), types.VariantBaseline)
	res, err := Decode(m, []types.Sentence{strings.Fields("the can zebra runs .")})
	require.NoError(t, err)
	// "can" is NOUN and VERB once each, the lower index wins; VERB is the most frequent tag
	assert.Equal(t, []string{"DET", "NOUN", "VERB", "VERB", "."}, res[0].Tags())
}

func testVariantDispatch(t *testing.T) {
	// the baseline ignores context, so "can" after "he" stays NOUN
	words := types.Sentence(strings.Fields("he can open ."))

	baseline, err := NewTagger(mustEstimate(smallCorpus(), types.VariantBaseline))
	require.NoError(t, err)
	assert.Equal(t, "NOUN", baseline(words)[1].Tag)

	viterbi, err := NewTagger(mustEstimate(smallCorpus(), types.VariantSimple))
	require.NoError(t, err)
	assert.Equal(t, "VERB", viterbi(words)[1].Tag)
}
