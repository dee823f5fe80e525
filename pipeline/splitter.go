package pipeline

import (
	"text2phenotype.com/hmmtagger/types"
	"sync"
)

type SentenceSplitter func(in <-chan types.PositionedSentence) []chan types.PositionedSentence

// NewSentenceChannelSplitter copies every sentence to n channels. Sentences may arrive out of
// order on each of them.
func NewSentenceChannelSplitter(n int) SentenceSplitter {

	return func(in <-chan types.PositionedSentence) []chan types.PositionedSentence {
		outs := make([]chan types.PositionedSentence, n)
		// init channels
		for i := 0; i < n; i++ {
			outs[i] = make(chan types.PositionedSentence)
		}

		go func() {
			defer closeAllChannels(outs)
			var wg sync.WaitGroup

			for sent := range in {
				wg.Add(1)
				go func(sent types.PositionedSentence) {
					defer wg.Done()
					for _, out := range outs {
						out <- sent
					}
				}(sent)

			}

			wg.Wait()
		}()
		return outs
	}
}

func closeAllChannels(outs []chan types.PositionedSentence) {
	for _, out := range outs {
		close(out)
	}
}
