package pipeline

import (
	"text2phenotype.com/hmmtagger/corpus"
	"text2phenotype.com/hmmtagger/logger"
	"text2phenotype.com/hmmtagger/pos"
	"text2phenotype.com/hmmtagger/types"
	"text2phenotype.com/hmmtagger/utils"
	"fmt"
	"github.com/rs/zerolog"
	"strconv"
	"strings"
	"sync"
	"time"
)

const DefaultMaxCachedModels = 32

type cachedModel struct {
	once  sync.Once
	model *pos.Model
	err   error
}

// ModelCache estimates each (training corpus, options) pair once and shares the read-only
// model between requests. The oldest entry is evicted when the cache is full. Failed
// estimations are not kept.
type ModelCache struct {
	mu        sync.Mutex
	models    map[uint64]*cachedModel
	order     []uint64
	maxModels int
	logger    zerolog.Logger
}

func NewModelCache(maxModels int) *ModelCache {
	if maxModels <= 0 {
		maxModels = DefaultMaxCachedModels
	}
	return &ModelCache{
		models:    make(map[uint64]*cachedModel),
		maxModels: maxModels,
		logger:    logger.NewLogger("Model cache"),
	}
}

func modelKey(training string, opts types.Hashable) uint64 {
	return utils.HashStrings(training, strconv.FormatUint(opts.GetHashCode(), 16))
}

func (cache *ModelCache) Get(training string, opts pos.Options) (*pos.Model, error) {
	key := modelKey(training, opts)

	cache.mu.Lock()
	entry, ok := cache.models[key]
	if !ok {
		entry = &cachedModel{}
		cache.models[key] = entry
		cache.order = append(cache.order, key)
		if len(cache.order) > cache.maxModels {
			delete(cache.models, cache.order[0])
			cache.order = cache.order[1:]
		}
	}
	cache.mu.Unlock()

	entry.once.Do(func() {
		entry.model, entry.err = cache.estimate(key, training, opts)
		if entry.err != nil {
			cache.forget(key, entry)
		}
	})
	return entry.model, entry.err
}

// forget drops a failed entry so the next request estimates again.
func (cache *ModelCache) forget(key uint64, entry *cachedModel) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	if cache.models[key] != entry {
		return
	}
	delete(cache.models, key)
	for i, k := range cache.order {
		if k == key {
			cache.order = append(cache.order[:i], cache.order[i+1:]...)
			break
		}
	}
}

func (cache *ModelCache) Len() int {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	return len(cache.models)
}

func (cache *ModelCache) estimate(key uint64, training string, opts pos.Options) (model *pos.Model, err error) {
	defer utils.RecoverWithError(&err)
	start := time.Now()
	train, err := corpus.ReadTagged(strings.NewReader(training))
	if err != nil {
		return nil, fmt.Errorf("training corpus: %w", err)
	}
	model, err = pos.Estimate(train, opts)
	if err != nil {
		return nil, err
	}
	cache.logger.Info().
		Uint64("model_key", key).
		Str("variant", string(opts.Variant)).
		Int("sentences", len(train)).
		Int("tags", model.NumTags()).
		Int("vocabulary", model.Vocabulary()).
		Dur("duration", time.Since(start)).
		Msg("Estimated model")
	return model, nil
}
