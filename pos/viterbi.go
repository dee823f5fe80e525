package pos

import (
	"text2phenotype.com/hmmtagger/types"
	"math"
)

// NewViterbi returns a decoder finding the most probable tag sequence of a sentence
// under the model. Scores are log10 probabilities. The model must have at least one tag.
func NewViterbi(model *Model) Tagger {
	return func(words types.Sentence) types.TaggedSentence {
		if len(words) == 0 {
			return types.TaggedSentence{}
		}

		lattice := newTrellis(len(words))
		known := make([]bool, len(words))

		for i, word := range words {
			emissions, _ := model.logEmissionRow(word)
			candidates, isKnown := model.dictionary.candidates(word)
			known[i] = isKnown

			gen := make(generation, len(candidates))
			for c, tag := range candidates {
				if i == 0 {
					gen[c] = node{
						score: model.logInitial[tag] + emissions[tag],
						back:  noParent,
						tag:   tag,
						word:  word,
					}
					continue
				}
				best, back := bestPredecessor(model, lattice.last(), tag)
				gen[c] = node{
					score: emissions[tag] + best,
					back:  back,
					tag:   tag,
					word:  word,
				}
			}
			lattice.push(gen)
		}

		path := lattice.backtrace()
		tagged := make(types.TaggedSentence, len(path))
		for i, n := range path {
			tag := model.counts.Tags[n.tag]
			if model.Options.SuffixHeuristic && !known[i] {
				tag = GuessTag(n.word, i > 0)
			}
			tagged[i] = types.TaggedWord{Word: n.word, Tag: tag}
		}

		if model.Options.Corrections {
			Correct(tagged)
		}
		return tagged
	}
}

// bestPredecessor maximises score + log P(tag|prev.tag) over the previous generation.
// Nodes are in ascending tag order, so on ties the lowest tag index wins.
func bestPredecessor(model *Model, prev generation, tag int) (float64, int) {
	best := math.Inf(-1)
	back := noParent
	for i, p := range prev {
		score := p.score + model.logTransition.At(p.tag, tag)
		if back == noParent || score > best {
			best = score
			back = i
		}
	}
	return best, back
}
