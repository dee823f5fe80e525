package pos

import (
	"text2phenotype.com/hmmtagger/types"
	"text2phenotype.com/hmmtagger/utils"
	"errors"
	"fmt"
	"math"
	"strconv"
)

const (
	DefaultSmoothing = 1e-5
	// ExtraSmoothing is small enough that seen (word, tag) pairs keep their
	// relative frequency exactly in float64.
	ExtraSmoothing = 1e-70
)

var (
	ErrUnknownVariant   = errors.New("unknown tagger variant")
	ErrInvalidSmoothing = errors.New("smoothing constant must be positive and finite")
	ErrNoTags           = errors.New("model has no tags, at least one tag must be observed in training")
)

// Options select how counts become probabilities and how a decoded sequence is post-processed.
type Options struct {
	Variant         types.Variant `json:"variant"`
	Smoothing       float64       `json:"smoothing"`
	HapaxWeighting  bool          `json:"hapax_weighting"`
	SuffixHeuristic bool          `json:"suffix_heuristic"`
	// Corrections applies Correct to every decoded sentence. Only the extra variant enables it.
	Corrections bool `json:"corrections"`
}

func OptionsFor(variant types.Variant) (Options, error) {
	switch variant {
	case types.VariantBaseline, types.VariantSimple:
		return Options{Variant: variant, Smoothing: DefaultSmoothing}, nil
	case types.VariantHapax:
		return Options{Variant: variant, Smoothing: DefaultSmoothing, HapaxWeighting: true}, nil
	case types.VariantExtra:
		return Options{
			Variant:         variant,
			Smoothing:       ExtraSmoothing,
			HapaxWeighting:  true,
			SuffixHeuristic: true,
			Corrections:     true,
		}, nil
	}
	return Options{}, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
}

// OptionsForConfig applies the smoothing override of a configuration on top of its variant defaults.
func OptionsForConfig(cfg types.Configuration) (Options, error) {
	variant := cfg.Variant
	if variant == "" {
		variant = types.DefaultVariant
	}
	opts, err := OptionsFor(variant)
	if err != nil {
		return opts, err
	}
	if cfg.Smoothing != 0 {
		opts.Smoothing = cfg.Smoothing
	}
	return opts, opts.validate()
}

// GetHashCode differs for any two options that estimate different models.
func (opts Options) GetHashCode() uint64 {
	return utils.HashStrings(
		string(opts.Variant),
		strconv.FormatFloat(opts.Smoothing, 'g', -1, 64),
		strconv.FormatBool(opts.HapaxWeighting),
		strconv.FormatBool(opts.SuffixHeuristic),
		strconv.FormatBool(opts.Corrections),
	)
}

func (opts Options) validate() error {
	k := opts.Smoothing
	if k <= 0 || math.IsInf(k, 0) || math.IsNaN(k) {
		return fmt.Errorf("%w: got %g", ErrInvalidSmoothing, k)
	}
	// hapax weighted emissions add roughly k*k to tags without hapax words
	if opts.HapaxWeighting && k*k == 0 {
		return fmt.Errorf("%w: %g underflows when weighted by hapax probabilities", ErrInvalidSmoothing, k)
	}
	return nil
}
