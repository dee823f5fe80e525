package pos

import (
	"text2phenotype.com/hmmtagger/types"
	"errors"
	"fmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"testing"
)

var allVariants = []types.Variant{
	types.VariantBaseline,
	types.VariantSimple,
	types.VariantHapax,
	types.VariantExtra,
}

func TestEstimate(t *testing.T) {
	corpora := map[string][]types.TaggedSentence{
		"empty":          nil,
		"single token":   {tagged("hello", "X")},
		"dog":            dogCorpus(),
		"small":          smallCorpus(),
		"empty sentence": {tagged(), tagged("the", "DET")},
	}
	for name, corpus := range corpora {
		for _, variant := range allVariants {
			t.Run(fmt.Sprintf("Probabilities in range for %s corpus, %s", name, variant),
				testProbabilitiesInRange(corpus, variant))
			t.Run(fmt.Sprintf("Full transition table for %s corpus, %s", name, variant),
				testFullTransitionTable(corpus, variant))
		}
	}
	t.Run("Simple formulas", testSimpleFormulas)
	t.Run("Hapax weighted emission", testHapaxWeightedEmission)
	t.Run("Invalid smoothing", testInvalidSmoothing)
	t.Run("Tiny smoothing keeps probabilities positive", testTinySmoothing)
	t.Run("Unknown variant", testUnknownVariant)
	t.Run("Config smoothing override", testConfigSmoothingOverride)
	t.Run("Options hash", testOptionsHash)
}

func inRange(t *testing.T, p float64, what string) {
	if !(p > 0 && p <= 1) || math.IsNaN(p) {
		t.Errorf("%s = %g, want a value in (0,1]", what, p)
	}
	if math.IsInf(math.Log10(p), 0) {
		t.Errorf("log10(%s) is not finite", what)
	}
}

func testProbabilitiesInRange(corpus []types.TaggedSentence, variant types.Variant) func(t *testing.T) {
	return func(t *testing.T) {
		m := mustEstimate(corpus, variant)
		words := []string{"*never seen*"}
		for word := range m.Counts().Words {
			words = append(words, word)
		}
		for _, tag := range m.Tags() {
			p, ok := m.Initial(tag)
			require.True(t, ok)
			inRange(t, p, "initial "+tag)

			p, ok = m.Hapax(tag)
			require.True(t, ok)
			inRange(t, p, "hapax "+tag)

			for _, word := range words {
				p, ok = m.Emission(word, tag)
				require.True(t, ok)
				inRange(t, p, fmt.Sprintf("emission %s|%s", word, tag))
			}
		}
	}
}

func testFullTransitionTable(corpus []types.TaggedSentence, variant types.Variant) func(t *testing.T) {
	return func(t *testing.T) {
		m := mustEstimate(corpus, variant)
		for _, from := range m.Tags() {
			for _, to := range m.Tags() {
				p, ok := m.Transition(from, to)
				if !ok {
					t.Errorf("missing transition %s -> %s", from, to)
					continue
				}
				inRange(t, p, fmt.Sprintf("transition %s -> %s", from, to))
			}
		}
	}
}

func testSimpleFormulas(t *testing.T) {
	m := mustEstimate(dogCorpus(), types.VariantSimple)
	k := DefaultSmoothing
	// 3 tags plus the unknown tag slot, 3 words
	T, V := 4.0, 3.0

	p, _ := m.Emission("dog", "NOUN")
	assert.InDelta(t, (1+k)/(1+k*(V+1)), p, 1e-12)
	p, _ = m.Emission("dog", "VERB")
	assert.InDelta(t, k/(1+k*(V+1)), p, 1e-12)
	p, _ = m.Emission("zebra", "DET")
	assert.InDelta(t, k/(1+k*(V+1)), p, 1e-12)

	p, _ = m.Transition("DET", "NOUN")
	assert.InDelta(t, (1+k)/(1+k*T), p, 1e-12)
	// VERB is never followed by anything
	p, _ = m.Transition("VERB", "DET")
	assert.InDelta(t, 1/T, p, 1e-12)

	p, _ = m.Initial("DET")
	assert.InDelta(t, (1+k)/(1+k*T), p, 1e-12)
	p, _ = m.Initial("VERB")
	assert.InDelta(t, k/(1+k*T), p, 1e-12)

	p, _ = m.Hapax("NOUN")
	assert.InDelta(t, (1+k)/(3+k*T), p, 1e-12)

	_, ok := m.Transition("DET", "ADV")
	assert.False(t, ok)
	_, ok = m.Emission("dog", "ADV")
	assert.False(t, ok)
}

func testHapaxWeightedEmission(t *testing.T) {
	m := mustEstimate(smallCorpus(), types.VariantHapax)
	counts := m.Counts()
	k := DefaultSmoothing
	v := float64(counts.Vocabulary())

	for _, tag := range m.Tags() {
		idx, _ := counts.TagIndex(tag)
		hapax, _ := m.Hapax(tag)
		w := k * hapax
		want := w / (float64(counts.TagTotals[idx]) + w*(v+1))
		got, _ := m.Emission("*unseen*", tag)
		assert.InDelta(t, want, got, want*1e-9, "unknown emission for %s", tag)
	}

	// tags that own more hapaxes leave more mass for unseen words
	noun, _ := m.Hapax("NOUN")
	pron, _ := m.Hapax("PRON")
	assert.Greater(t, noun, pron)
}

func testInvalidSmoothing(t *testing.T) {
	for _, k := range []float64{0, -1e-5, math.Inf(1), math.NaN()} {
		_, err := Estimate(dogCorpus(), Options{Variant: types.VariantSimple, Smoothing: k})
		if !errors.Is(err, ErrInvalidSmoothing) {
			t.Errorf("smoothing %g: expected ErrInvalidSmoothing, got %v", k, err)
		}
	}

	for _, k := range []float64{1e-200, 1e-320} {
		_, err := OptionsForConfig(types.Configuration{Variant: types.VariantHapax, Smoothing: k})
		if !errors.Is(err, ErrInvalidSmoothing) {
			t.Errorf("hapax smoothing %g: expected ErrInvalidSmoothing, got %v", k, err)
		}
	}
	_, err := OptionsForConfig(types.Configuration{Variant: types.VariantSimple, Smoothing: 1e-320})
	assert.NoError(t, err)
}

func testTinySmoothing(t *testing.T) {
	cases := []Options{
		{Variant: types.VariantSimple, Smoothing: 1e-320},
		{Variant: types.VariantHapax, Smoothing: 1e-160, HapaxWeighting: true},
	}
	for _, opts := range cases {
		m, err := Estimate(smallCorpus(), opts)
		require.NoError(t, err)
		for _, tag := range m.Tags() {
			p, _ := m.Emission("zebra", tag)
			inRange(t, p, fmt.Sprintf("%g: emission zebra|%s", opts.Smoothing, tag))
			p, _ = m.Initial(tag)
			inRange(t, p, fmt.Sprintf("%g: initial %s", opts.Smoothing, tag))
			p, _ = m.Hapax(tag)
			inRange(t, p, fmt.Sprintf("%g: hapax %s", opts.Smoothing, tag))
			p, _ = m.Transition(".", tag)
			inRange(t, p, fmt.Sprintf("%g: transition . -> %s", opts.Smoothing, tag))
		}

		res, err := Decode(m, []types.Sentence{{"the", "zebra", "runs", "."}})
		require.NoError(t, err)
		assert.Len(t, res[0], 4)
	}
}

func testUnknownVariant(t *testing.T) {
	_, err := OptionsFor("trigram")
	require.ErrorIs(t, err, ErrUnknownVariant)
}

func testConfigSmoothingOverride(t *testing.T) {
	opts, err := OptionsForConfig(types.Configuration{Variant: types.VariantHapax, Smoothing: 0.5})
	require.NoError(t, err)
	assert.Equal(t, 0.5, opts.Smoothing)
	assert.True(t, opts.HapaxWeighting)

	opts, err = OptionsForConfig(types.Configuration{})
	require.NoError(t, err)
	assert.Equal(t, types.VariantExtra, opts.Variant)
	assert.Equal(t, ExtraSmoothing, opts.Smoothing)

	_, err = OptionsForConfig(types.Configuration{Variant: types.VariantSimple, Smoothing: -1})
	require.ErrorIs(t, err, ErrInvalidSmoothing)
}

func testOptionsHash(t *testing.T) {
	seen := make(map[uint64]types.Variant)
	for _, variant := range allVariants {
		opts, err := OptionsFor(variant)
		require.NoError(t, err)
		again, _ := OptionsFor(variant)
		assert.Equal(t, opts.GetHashCode(), again.GetHashCode())
		if prev, ok := seen[opts.GetHashCode()]; ok {
			t.Errorf("%s and %s share a hash", prev, variant)
		}
		seen[opts.GetHashCode()] = variant
	}

	simple, _ := OptionsFor(types.VariantSimple)
	smoothed := simple
	smoothed.Smoothing = 0.5
	assert.NotEqual(t, simple.GetHashCode(), smoothed.GetHashCode())

	var _ types.Hashable = simple
}
