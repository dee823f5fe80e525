package pipeline

import (
	"text2phenotype.com/hmmtagger/logger"
	"text2phenotype.com/hmmtagger/pos"
	"text2phenotype.com/hmmtagger/types"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var ErrNoTrainingCorpus = errors.New("no training corpus in request and no training_file configured")

type DefaultTaggingParams struct {
	Configurations  []types.Configuration `json:"configurations"`
	MaxCachedModels int                   `json:"max_cached_models"`
}

func GetDefaultTaggingParams(cfgs []types.Configuration) DefaultTaggingParams {
	return DefaultTaggingParams{
		Configurations:  cfgs,
		MaxCachedModels: DefaultMaxCachedModels,
	}
}

func DefaultTagging(params DefaultTaggingParams) (Pipeline, error) {
	taggerLogger := logger.NewLogger("Default tagging pipeline")
	errLogger := taggerLogger.With().Caller().Logger()
	taggerLogger.Info().
		Interface("params", params).
		Msg("Starting default tagging pipeline (see parameters in 'params' field)")

	options := make([]pos.Options, len(params.Configurations))
	trainingTexts := make([]string, len(params.Configurations))
	for i, cfg := range params.Configurations {
		opts, err := pos.OptionsForConfig(cfg)
		if err != nil {
			errLogger.Err(err).
				Interface("configuration", cfg).
				Msg("Invalid tagger configuration")
			return nil, fmt.Errorf("configuration %q: %w", cfg.Name, err)
		}
		options[i] = opts

		if cfg.TrainingFile == "" {
			continue
		}
		buf, err := os.ReadFile(cfg.TrainingFile)
		if err != nil {
			errLogger.Err(err).
				Str("config_name", cfg.Name).
				Str("training_file", cfg.TrainingFile).
				Msg("Failed to read training corpus")
			return nil, err
		}
		trainingTexts[i] = string(buf)
	}

	cache := NewModelCache(params.MaxCachedModels)
	// warm up the cache so the first request does not pay for estimation
	for i, cfg := range params.Configurations {
		if trainingTexts[i] == "" {
			continue
		}
		if _, err := cache.Get(trainingTexts[i], options[i]); err != nil {
			errLogger.Err(err).
				Str("config_name", cfg.Name).
				Msg("Failed to estimate model from training file")
			return nil, err
		}
	}

	parser := NewSentenceParser()
	splitter := NewSentenceChannelSplitter(len(params.Configurations))
	taggingResult := NewTaggingResult()
	failedResult := NewErrorResult()

	return func(request Request) <-chan string {
		responseChan := make(chan string)
		pplnLog := taggerLogger.With().Str("tid", request.Tid).Logger()
		pplnLog.Info().Msg("Started default tagging pipeline")
		errLogger := pplnLog.With().Caller().Logger()

		go func() {
			defer close(responseChan)
			var in = make(chan string)

			split := splitter(parser(in))

			resultChannel := make(chan Result)
			defer close(resultChannel)

			for i, cfg := range params.Configurations {
				training := request.Training
				if training == "" {
					training = trainingTexts[i]
				}

				tagger, err := configurationTagger(cache, training, options[i])
				if err != nil {
					errLogger.Err(err).
						Str("config_name", cfg.Name).
						Msg("Could not prepare tagger for configuration")
					connect(failedResult(split[i], cfg.Name, request, err), resultChannel)
					continue
				}

				tagged := tagger(split[i])
				connect(taggingResult(tagged, cfg, request), resultChannel)
			}

			in <- request.Text
			close(in)
			response := make(map[string]interface{})

			for i := 0; i < len(params.Configurations); i++ {
				res := <-resultChannel
				pplnLog.Info().
					Str("config_name", res.ConfigName).
					Msg("Finished pipeline for configuration")
				response[res.ConfigName] = res.Data
			}

			buf, err := json.Marshal(response)
			if err != nil {
				errLogger.Err(err).Msg("Failed to marshall response")
				return
			}
			pplnLog.Info().Msg("Finished default tagging pipeline")
			responseChan <- string(buf)
		}()

		return responseChan
	}, nil

}

func configurationTagger(cache *ModelCache, training string, opts pos.Options) (Tagger, error) {
	if training == "" {
		return nil, ErrNoTrainingCorpus
	}
	model, err := cache.Get(training, opts)
	if err != nil {
		return nil, err
	}
	return NewPOSTagger(model)
}

func connect(from <-chan Result, to chan<- Result) {
	go func() {
		for v := range from {
			to <- v
		}
	}()
}
