package pipeline

import (
	"text2phenotype.com/hmmtagger/pos"
	"text2phenotype.com/hmmtagger/types"
	"text2phenotype.com/hmmtagger/utils"
	"sync"
)

type Tagger func(in <-chan types.PositionedSentence) <-chan types.PositionedSentence

// NewPOSTagger decodes every incoming sentence in its own goroutine, so the output order is
// not the input order.
func NewPOSTagger(model *pos.Model) (Tagger, error) {
	tagger, err := pos.NewTagger(model)
	if err != nil {
		return nil, err
	}

	return func(in <-chan types.PositionedSentence) <-chan types.PositionedSentence {
		out := make(chan types.PositionedSentence)
		go func() {
			defer close(out)
			var wg sync.WaitGroup
			for sent := range in {

				wg.Add(1)
				go func(sent types.PositionedSentence) {
					defer wg.Done()
					sent.Tagged, sent.Err = tagSentence(tagger, sent.Words)
					out <- sent
				}(sent)

			}

			wg.Wait()

		}()
		return out
	}, nil
}

func tagSentence(tagger pos.Tagger, words types.Sentence) (tagged types.TaggedSentence, err error) {
	defer utils.RecoverWithError(&err)
	return tagger(words), nil
}
