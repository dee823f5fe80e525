package pos

import "gonum.org/v1/gonum/floats"

const noParent = -1

type node struct {
	score float64
	// back indexes the previous generation, noParent at position 0
	back int
	tag  int
	word string
}

type generation []node

type trellis struct {
	generations []generation
}

func newTrellis(length int) *trellis {
	return &trellis{generations: make([]generation, 0, length)}
}

func (t *trellis) push(gen generation) {
	t.generations = append(t.generations, gen)
}

func (t *trellis) last() generation {
	return t.generations[len(t.generations)-1]
}

// backtrace follows back indices from the best final node and returns the path
// from the first position to the last.
func (t *trellis) backtrace() []node {
	final := t.last()
	scores := make([]float64, len(final))
	for i, n := range final {
		scores[i] = n.score
	}
	idx := floats.MaxIdx(scores)

	path := make([]node, len(t.generations))
	for pos := len(t.generations) - 1; pos >= 0; pos-- {
		n := t.generations[pos][idx]
		path[pos] = n
		idx = n.back
	}
	return path
}
