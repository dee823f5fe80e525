package pipeline

import (
	"text2phenotype.com/hmmtagger/pos"
	"text2phenotype.com/hmmtagger/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
)

func mustOptions(t *testing.T, variant types.Variant) pos.Options {
	opts, err := pos.OptionsFor(variant)
	require.NoError(t, err)
	return opts
}

func TestModelCache(t *testing.T) {
	t.Run("Shares estimated models", testCacheSharesModels)
	t.Run("Key covers options", testCacheKeyCoversOptions)
	t.Run("Evicts oldest model", testCacheEviction)
	t.Run("Retries failed estimation", testCacheErrors)
}

func testCacheSharesModels(t *testing.T) {
	cache := NewModelCache(0)
	opts := mustOptions(t, types.VariantSimple)

	var wg sync.WaitGroup
	models := make([]*pos.Model, 8)
	for i := range models {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			model, err := cache.Get(dogTraining, opts)
			assert.NoError(t, err)
			models[i] = model
		}(i)
	}
	wg.Wait()

	require.NotNil(t, models[0])
	for _, model := range models[1:] {
		assert.Same(t, models[0], model)
	}
	assert.Equal(t, 1, cache.Len())
}

func testCacheKeyCoversOptions(t *testing.T) {
	cache := NewModelCache(0)
	simple, err := cache.Get(dogTraining, mustOptions(t, types.VariantSimple))
	require.NoError(t, err)
	hapax, err := cache.Get(dogTraining, mustOptions(t, types.VariantHapax))
	require.NoError(t, err)
	other, err := cache.Get("the=DET cat=NOUN", mustOptions(t, types.VariantSimple))
	require.NoError(t, err)

	assert.NotSame(t, simple, hapax)
	assert.NotSame(t, simple, other)
	assert.Equal(t, 3, cache.Len())
}

func testCacheEviction(t *testing.T) {
	cache := NewModelCache(2)
	opts := mustOptions(t, types.VariantSimple)
	first, err := cache.Get("a=X", opts)
	require.NoError(t, err)
	_, err = cache.Get("b=X", opts)
	require.NoError(t, err)
	_, err = cache.Get("c=X", opts)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len())

	again, err := cache.Get("a=X", opts)
	require.NoError(t, err)
	assert.NotSame(t, first, again)
}

func testCacheErrors(t *testing.T) {
	cache := NewModelCache(0)
	opts := mustOptions(t, types.VariantSimple)
	_, err := cache.Get("not a corpus", opts)
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())

	_, again := cache.Get("not a corpus", opts)
	assert.EqualError(t, again, err.Error())
	assert.Equal(t, 0, cache.Len())

	model, err := cache.Get(dogTraining, opts)
	require.NoError(t, err)
	assert.NotNil(t, model)
	assert.Equal(t, 1, cache.Len())

	_, err = cache.Get(dogTraining, pos.Options{Variant: types.VariantSimple})
	require.ErrorIs(t, err, pos.ErrInvalidSmoothing)
}
