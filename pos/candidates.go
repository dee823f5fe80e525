package pos

// tagDictionary restricts the tags a known word may take to the ones it was seen with.
type tagDictionary struct {
	tags map[string][]int
	all  []int
}

func newTagDictionary(counts Counts) tagDictionary {
	dict := tagDictionary{
		tags: make(map[string][]int, len(counts.Words)),
		all:  make([]int, len(counts.Tags)),
	}
	for tag := range dict.all {
		dict.all[tag] = tag
	}
	for word, row := range counts.Words {
		var seen []int
		for tag, n := range row {
			if n > 0 {
				seen = append(seen, tag)
			}
		}
		dict.tags[word] = seen
	}
	return dict
}

// candidates lists tag indices in ascending order. Unknown words may take any tag.
func (dict tagDictionary) candidates(word string) ([]int, bool) {
	tags, ok := dict.tags[word]
	if !ok {
		return dict.all, false
	}
	return tags, true
}
