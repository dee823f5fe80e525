package pos

import (
	"text2phenotype.com/hmmtagger/types"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"math"
)

// Model is the smoothed HMM estimated from a tagged corpus. It is never modified
// after Estimate returns and can be shared between goroutines.
type Model struct {
	Options Options
	counts  Counts

	emission   map[string][]float64
	unknown    []float64
	transition *mat.Dense
	initial    []float64
	hapax      []float64

	logEmission   map[string][]float64
	logUnknown    []float64
	logTransition *mat.Dense
	logInitial    []float64

	dictionary   tagDictionary
	mostFrequent map[string]int
	defaultTag   int
}

func Estimate(train []types.TaggedSentence, opts Options) (*Model, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return estimate(CountFrequencies(train), opts), nil
}

func estimate(counts Counts, opts Options) *Model {
	k := opts.Smoothing
	numTags := len(counts.Tags)
	// one extra slot for the never assigned unknown tag
	t := float64(numTags + 1)
	v := float64(counts.Vocabulary())

	m := &Model{
		Options:      opts,
		counts:       counts,
		emission:     make(map[string][]float64, len(counts.Words)),
		logEmission:  make(map[string][]float64, len(counts.Words)),
		hapax:        make([]float64, numTags),
		initial:      make([]float64, numTags),
		logInitial:   make([]float64, numTags),
		dictionary:   newTagDictionary(counts),
		mostFrequent: make(map[string]int, len(counts.Words)),
	}

	for tag := 0; tag < numTags; tag++ {
		m.hapax[tag] = positive((float64(counts.Hapax[tag]) + k) / (float64(counts.HapaxTotal) + k*t))
	}

	weights := make([]float64, numTags)
	for tag := range weights {
		weights[tag] = k
		if opts.HapaxWeighting {
			weights[tag] = positive(k * m.hapax[tag])
		}
	}

	emissionRow := func(row []int) []float64 {
		probs := make([]float64, numTags)
		for tag, n := range row {
			w := weights[tag]
			probs[tag] = positive((float64(n) + w) / (float64(counts.TagTotals[tag]) + w*(v+1)))
		}
		return probs
	}
	for word, row := range counts.Words {
		probs := emissionRow(row)
		m.emission[word] = probs
		m.logEmission[word] = logs(probs)
		m.mostFrequent[word] = argmax(row)
	}
	m.unknown = emissionRow(counts.Unknown)
	m.logUnknown = logs(m.unknown)

	for tag := 0; tag < numTags; tag++ {
		m.initial[tag] = positive((float64(counts.Initial[tag]) + k) / (float64(counts.Sentences) + k*t))
		m.logInitial[tag] = math.Log10(m.initial[tag])
	}

	// mat.Dense does not allow zero dimensions
	if numTags > 0 {
		m.transition = mat.NewDense(numTags, numTags, nil)
		m.logTransition = mat.NewDense(numTags, numTags, nil)
		for from := 0; from < numTags; from++ {
			denominator := float64(counts.Predecessors[from]) + k*t
			for to := 0; to < numTags; to++ {
				p := positive((float64(counts.Transitions[from][to]) + k) / denominator)
				m.transition.Set(from, to, p)
				m.logTransition.Set(from, to, math.Log10(p))
			}
		}
		m.defaultTag = argmax(counts.TagTotals)
	}

	return m
}

// positive keeps a smoothed probability from underflowing to zero, whose log is -Inf.
func positive(p float64) float64 {
	return math.Max(p, math.SmallestNonzeroFloat64)
}

func logs(probs []float64) []float64 {
	res := make([]float64, len(probs))
	for i, p := range probs {
		res[i] = math.Log10(p)
	}
	return res
}

// argmax returns the lowest index holding the highest count.
func argmax(row []int) int {
	values := make([]float64, len(row))
	for i, n := range row {
		values[i] = float64(n)
	}
	return floats.MaxIdx(values)
}

func (m *Model) Tags() []string {
	tags := make([]string, len(m.counts.Tags))
	copy(tags, m.counts.Tags)
	return tags
}

func (m *Model) NumTags() int {
	return len(m.counts.Tags)
}

func (m *Model) Vocabulary() int {
	return m.counts.Vocabulary()
}

func (m *Model) Known(word string) bool {
	_, ok := m.counts.Words[word]
	return ok
}

// Counts exposes the tallies the model was estimated from. Callers must not modify them.
func (m *Model) Counts() Counts {
	return m.counts
}

// Emission is P(word|tag); unknown words use the placeholder distribution.
func (m *Model) Emission(word string, tag string) (float64, bool) {
	idx, ok := m.counts.TagIndex(tag)
	if !ok {
		return 0, false
	}
	row, known := m.emission[word]
	if !known {
		row = m.unknown
	}
	return row[idx], true
}

func (m *Model) Transition(from string, to string) (float64, bool) {
	a, okFrom := m.counts.TagIndex(from)
	b, okTo := m.counts.TagIndex(to)
	if !okFrom || !okTo {
		return 0, false
	}
	return m.transition.At(a, b), true
}

func (m *Model) Initial(tag string) (float64, bool) {
	idx, ok := m.counts.TagIndex(tag)
	if !ok {
		return 0, false
	}
	return m.initial[idx], true
}

// Hapax is P(tag|word occurs once).
func (m *Model) Hapax(tag string) (float64, bool) {
	idx, ok := m.counts.TagIndex(tag)
	if !ok {
		return 0, false
	}
	return m.hapax[idx], true
}

func (m *Model) logEmissionRow(word string) ([]float64, bool) {
	row, ok := m.logEmission[word]
	if !ok {
		return m.logUnknown, false
	}
	return row, true
}
