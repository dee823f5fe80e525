package pipeline

import (
	"text2phenotype.com/hmmtagger/corpus"
	"text2phenotype.com/hmmtagger/logger"
	"text2phenotype.com/hmmtagger/types"
	"strings"
)

type SentenceParser func(in <-chan string) <-chan types.PositionedSentence

// NewSentenceParser reads one whitespace tokenized sentence per line. Positions keep counting
// across all texts received on the same channel.
func NewSentenceParser() SentenceParser {
	taggerLogger := logger.NewLogger("Sentence parser")

	return func(in <-chan string) <-chan types.PositionedSentence {
		out := make(chan types.PositionedSentence)
		go func() {
			defer close(out)
			position := 0
			for text := range in {
				sentences, err := corpus.ReadUntagged(strings.NewReader(text))
				if err != nil {
					taggerLogger.Err(err).
						Int("parsed_sentences", len(sentences)).
						Msg("Failed to parse text, keeping sentences read so far")
				}
				for _, words := range sentences {
					out <- types.PositionedSentence{Position: position, Words: words}
					position++
				}
			}
		}()
		return out
	}
}
