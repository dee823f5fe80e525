package pos

import (
	"text2phenotype.com/hmmtagger/types"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Counts holds the raw tallies of a tagged corpus. All per-tag slices are indexed
// by the position of the tag in Tags, which is sorted.
type Counts struct {
	Tags     []string
	tagIndex map[string]int

	// Words maps every training word to its per-tag counts.
	Words map[string][]int
	// Unknown is the placeholder row used for words never seen in training, all zeros.
	Unknown []int

	TagTotals []int
	Initial   []int
	// Transitions[a][b] counts tag a directly followed by tag b inside a sentence.
	Transitions [][]int
	// Predecessors[a] counts how often tag a is the left side of a transition.
	Predecessors []int

	// Hapax[t] counts the words seen with tag t exactly once.
	Hapax      []int
	HapaxTotal int

	Sentences int
}

func CountFrequencies(train []types.TaggedSentence) Counts {
	tagSet := make(map[string]struct{})
	for _, sent := range train {
		for _, tw := range sent {
			tagSet[tw.Tag] = struct{}{}
		}
	}
	tags := maps.Keys(tagSet)
	slices.Sort(tags)

	counts := newCounts(tags)
	counts.Sentences = len(train)

	for _, sent := range train {
		prev := -1
		for i, tw := range sent {
			tag := counts.tagIndex[tw.Tag]

			row, ok := counts.Words[tw.Word]
			if !ok {
				row = make([]int, len(tags))
				counts.Words[tw.Word] = row
			}
			row[tag]++
			counts.TagTotals[tag]++

			if i == 0 {
				counts.Initial[tag]++
			} else {
				counts.Transitions[prev][tag]++
				counts.Predecessors[prev]++
			}
			prev = tag
		}
	}

	for _, row := range counts.Words {
		for tag, n := range row {
			if n == 1 {
				counts.Hapax[tag]++
				counts.HapaxTotal++
			}
		}
	}

	return counts
}

func newCounts(tags []string) Counts {
	n := len(tags)
	counts := Counts{
		Tags:         tags,
		tagIndex:     make(map[string]int, n),
		Words:        make(map[string][]int),
		Unknown:      make([]int, n),
		TagTotals:    make([]int, n),
		Initial:      make([]int, n),
		Transitions:  make([][]int, n),
		Predecessors: make([]int, n),
		Hapax:        make([]int, n),
	}
	for i, tag := range tags {
		counts.tagIndex[tag] = i
		counts.Transitions[i] = make([]int, n)
	}
	return counts
}

func (counts Counts) TagIndex(tag string) (int, bool) {
	idx, ok := counts.tagIndex[tag]
	return idx, ok
}

// WordTags returns the per-tag counts of a word, the zero placeholder row when the word is unknown.
func (counts Counts) WordTags(word string) ([]int, bool) {
	row, ok := counts.Words[word]
	if !ok {
		return counts.Unknown, false
	}
	return row, true
}

// Vocabulary is the number of distinct training words.
func (counts Counts) Vocabulary() int {
	return len(counts.Words)
}
