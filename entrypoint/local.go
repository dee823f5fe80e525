package main

import (
	"text2phenotype.com/hmmtagger/corpus"
	"text2phenotype.com/hmmtagger/pos"
	"text2phenotype.com/hmmtagger/types"
	"bufio"
	"errors"
	"github.com/cheggaaa/pb/v3"
	"github.com/rs/zerolog"
	"io"
	"os"
	"sync"
	"time"
)

var errNoTestCorpus = errors.New("either -test or -gold is required with -train")

// local holds the flags of a run against corpus files, without any service around it.
type local struct {
	trainPath string
	testPath  string
	goldPath  string
	outPath   string
	variant   types.Variant
	smoothing float64
	workers   int
}

func readCorpus[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return read(f)
}

func (l local) run(taggerLogger zerolog.Logger) error {
	opts, err := pos.OptionsForConfig(types.Configuration{Variant: l.variant, Smoothing: l.smoothing})
	if err != nil {
		return err
	}

	train, err := readCorpus(l.trainPath, corpus.ReadTagged)
	if err != nil {
		return err
	}

	var gold []types.TaggedSentence
	if l.goldPath != "" {
		if gold, err = readCorpus(l.goldPath, corpus.ReadTagged); err != nil {
			return err
		}
	}

	var test []types.Sentence
	switch {
	case l.testPath != "":
		if test, err = readCorpus(l.testPath, corpus.ReadUntagged); err != nil {
			return err
		}
	case gold != nil:
		test = corpus.Strip(gold)
	default:
		return errNoTestCorpus
	}

	start := time.Now()
	model, err := pos.Estimate(train, opts)
	if err != nil {
		return err
	}
	taggerLogger.Info().
		Str("variant", string(opts.Variant)).
		Float64("smoothing", opts.Smoothing).
		Int("sentences", len(train)).
		Int("tags", model.NumTags()).
		Int("vocabulary", model.Vocabulary()).
		Dur("duration", time.Since(start)).
		Msg("Model estimated")

	tagger, err := pos.NewTagger(model)
	if err != nil {
		return err
	}

	start = time.Now()
	predicted := decodeAll(tagger, test, l.workers)
	taggerLogger.Info().
		Int("sentences", len(test)).
		Dur("duration", time.Since(start)).
		Msg("Corpus tagged")

	if err = l.writeOutput(predicted); err != nil {
		return err
	}

	if gold != nil {
		report, err := corpus.Evaluate(predicted, gold, train)
		if err != nil {
			return err
		}
		logReport(taggerLogger, report)
	}
	return nil
}

// decodeAll tags sentences on a pool of workers; the result keeps the input order.
func decodeAll(tagger pos.Tagger, test []types.Sentence, workers int) []types.TaggedSentence {
	if workers < 1 {
		workers = 1
	}
	res := make([]types.TaggedSentence, len(test))
	indices := make(chan int)
	bar := pb.StartNew(len(test))

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indices {
				res[i] = tagger(test[i])
				bar.Add(1)
			}
		}()
	}
	for i := range test {
		indices <- i
	}
	close(indices)
	wg.Wait()
	bar.Finish()
	return res
}

func (l local) writeOutput(predicted []types.TaggedSentence) error {
	if l.outPath == "" {
		out := bufio.NewWriter(os.Stdout)
		if err := corpus.WriteTagged(out, predicted); err != nil {
			return err
		}
		return out.Flush()
	}

	f, err := os.Create(l.outPath)
	if err != nil {
		return err
	}
	out := bufio.NewWriter(f)
	if err = corpus.WriteTagged(out, predicted); err != nil {
		f.Close()
		return err
	}
	if err = out.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func logReport(taggerLogger zerolog.Logger, report corpus.Report) {
	taggerLogger.Info().
		Int("total", report.Total).
		Int("correct", report.Correct).
		Float64("accuracy", report.Accuracy).
		Float64("seen_accuracy", report.SeenAccuracy).
		Float64("unseen_accuracy", report.UnseenAccuracy).
		Int("unseen_words", report.UnseenWords).
		Msg("Evaluation")
	for _, c := range report.TopConfusions {
		taggerLogger.Info().
			Str("gold", c.Gold).
			Str("predicted", c.Predicted).
			Int("count", c.Count).
			Msg("Confusion")
	}
}
