package pipeline

import (
	"text2phenotype.com/hmmtagger/types"
	"fmt"
	"sort"
)

type Result struct {
	ConfigName string
	Data       interface{}
}

type ResultBuilder func(in <-chan types.PositionedSentence, cfg types.Configuration, request Request) <-chan Result

// NewTaggingResult collects the tagged sentences of one configuration in document order.
// A sentence that failed to decode turns the whole result into an error response.
func NewTaggingResult() ResultBuilder {
	return func(in <-chan types.PositionedSentence, cfg types.Configuration, request Request) <-chan Result {
		out := make(chan Result)
		go func() {
			defer close(out)
			var sentences []types.PositionedSentence
			var firstErr error
			for sent := range in {
				if sent.Err != nil && firstErr == nil {
					firstErr = fmt.Errorf("sentence %d: %w", sent.Position, sent.Err)
				}
				sentences = append(sentences, sent)
			}

			if firstErr != nil {
				out <- errorResult(cfg.Name, request, firstErr)
				return
			}

			sort.Slice(sentences, func(i, j int) bool { return sentences[i].Position < sentences[j].Position })

			var response types.TaggingResponse
			response.DocId = request.Tid
			response.Variant = cfg.Variant
			response.Sentences = make([]types.TaggedSentence, len(sentences))
			for i, sent := range sentences {
				response.Sentences[i] = sent.Tagged
			}

			out <- Result{
				ConfigName: cfg.Name,
				Data:       response,
			}
		}()
		return out
	}
}

// NewErrorResult drains the sentences of a configuration that cannot be tagged.
func NewErrorResult() func(in <-chan types.PositionedSentence, cfgName string, request Request, err error) <-chan Result {
	return func(in <-chan types.PositionedSentence, cfgName string, request Request, err error) <-chan Result {
		out := make(chan Result)
		go func() {
			defer close(out)
			for range in {
			}
			out <- errorResult(cfgName, request, err)
		}()
		return out
	}
}

func errorResult(cfgName string, request Request, err error) Result {
	var response types.ErrorResponse
	response.DocId = request.Tid
	response.Error = err.Error()
	return Result{
		ConfigName: cfgName,
		Data:       response,
	}
}
