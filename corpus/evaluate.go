package corpus

import (
	"text2phenotype.com/hmmtagger/types"
	"errors"
	"fmt"
	"sort"
)

var ErrShapeMismatch = errors.New("predicted and gold sentences differ in shape")

type Confusion struct {
	Gold      string `json:"gold"`
	Predicted string `json:"predicted"`
	Count     int    `json:"count"`
}

type Report struct {
	Total          int         `json:"total"`
	Correct        int         `json:"correct"`
	Accuracy       float64     `json:"accuracy"`
	SeenAccuracy   float64     `json:"seen_accuracy"`
	UnseenAccuracy float64     `json:"unseen_accuracy"`
	UnseenWords    int         `json:"unseen_words"`
	TopConfusions  []Confusion `json:"top_confusions"`
}

const maxConfusions = 10

// Evaluate compares predictions with gold tags. Words absent from train count as unseen.
func Evaluate(predicted []types.TaggedSentence, gold []types.TaggedSentence, train []types.TaggedSentence) (Report, error) {
	var report Report
	if len(predicted) != len(gold) {
		return report, fmt.Errorf("%w: %d predicted vs %d gold sentences", ErrShapeMismatch, len(predicted), len(gold))
	}

	vocab := make(map[string]struct{})
	for _, sent := range train {
		for _, tw := range sent {
			vocab[tw.Word] = struct{}{}
		}
	}

	type pair struct{ gold, predicted string }
	confusions := make(map[pair]int)
	var seenTotal, seenCorrect, unseenCorrect int

	for i := range gold {
		if len(predicted[i]) != len(gold[i]) {
			return report, fmt.Errorf("%w: sentence %d has %d predicted vs %d gold words",
				ErrShapeMismatch, i, len(predicted[i]), len(gold[i]))
		}
		for j, g := range gold[i] {
			p := predicted[i][j]
			if p.Word != g.Word {
				return report, fmt.Errorf("%w: sentence %d word %d is %q, gold has %q",
					ErrShapeMismatch, i, j, p.Word, g.Word)
			}
			_, seen := vocab[g.Word]
			correct := p.Tag == g.Tag

			report.Total++
			if seen {
				seenTotal++
			} else {
				report.UnseenWords++
			}
			if correct {
				report.Correct++
				if seen {
					seenCorrect++
				} else {
					unseenCorrect++
				}
				continue
			}
			confusions[pair{g.Tag, p.Tag}]++
		}
	}

	report.Accuracy = ratio(report.Correct, report.Total)
	report.SeenAccuracy = ratio(seenCorrect, seenTotal)
	report.UnseenAccuracy = ratio(unseenCorrect, report.UnseenWords)

	for pr, n := range confusions {
		report.TopConfusions = append(report.TopConfusions, Confusion{Gold: pr.gold, Predicted: pr.predicted, Count: n})
	}
	sort.Slice(report.TopConfusions, func(i, j int) bool {
		a, b := report.TopConfusions[i], report.TopConfusions[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.Gold != b.Gold {
			return a.Gold < b.Gold
		}
		return a.Predicted < b.Predicted
	})
	if len(report.TopConfusions) > maxConfusions {
		report.TopConfusions = report.TopConfusions[:maxConfusions]
	}
	return report, nil
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
