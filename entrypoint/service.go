package main

import (
	"text2phenotype.com/hmmtagger/api"
	"text2phenotype.com/hmmtagger/pipeline"
	"text2phenotype.com/hmmtagger/types"
	"text2phenotype.com/hmmtagger/utils"
	"text2phenotype.com/hmmtagger/worker"
	"context"
	"errors"
	"fmt"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

type Config struct {
	ConfigPath    string `envconfig:"TAGGER_CONFIG_PATH" required:"true"`
	RestAPIActive bool   `envconfig:"TAGGER_REST_API_ACTIVE" default:"false"`
	RestAPIPort   string `envconfig:"TAGGER_REST_API_PORT" default:"10000"`
}

const (
	pipelineStartMaxRetries = 5
	retryDelay              = 5 * time.Second
)

func runService(taggerLogger zerolog.Logger) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		taggerLogger.Fatal().Caller().Err(err).Msg("Failed to read environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ppln, err := loadPipeline(ctx, config, taggerLogger)
	if err != nil {
		taggerLogger.Fatal().Caller().Err(err).Msg("Could not start pipeline")
	}

	if config.RestAPIActive {
		go serveAPI(ppln, config.RestAPIPort, taggerLogger)
	}

	taggerLogger.Info().Msg("Start tagger worker")
	for ctx.Err() == nil {
		rmqWorker, err := worker.New(ppln)
		if err != nil {
			taggerLogger.Fatal().Err(err).Msg("Could not initialize RMQ worker")
		}
		err = rmqWorker.StartWorker(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			taggerLogger.Err(err).Msgf("Worker returned with error. Launching new in %s", retryDelay)
			sleep(ctx, retryDelay)
		}
	}
	taggerLogger.Info().Msg("Tagger stopped")
}

// loadPipeline retries because training files may live on volumes mounted after start.
func loadPipeline(ctx context.Context, config Config, taggerLogger zerolog.Logger) (pipeline.Pipeline, error) {
	for retry := 0; retry < pipelineStartMaxRetries; retry++ {
		if retry > 0 && !sleep(ctx, retryDelay) {
			return nil, ctx.Err()
		}
		cfgs, err := types.LoadConfigurations(config.ConfigPath)
		if err != nil {
			taggerLogger.Err(err).Int("retry", retry).Msg("Failed to load configurations")
			continue
		}
		taggerLogger.Info().Int("configurations", len(cfgs)).Msg("Loaded configurations, starting pipeline")

		ppln, err := pipeline.DefaultTagging(pipeline.GetDefaultTaggingParams(cfgs))
		if err != nil {
			taggerLogger.Err(err).Int("retry", retry).Msg("Failed to start default tagging pipeline")
			continue
		}
		// tags of the configured corpora are interned by now
		utils.GlobalStringStore().Lock()
		taggerLogger.Info().Msg("Pipeline loaded")
		return ppln, nil
	}
	return nil, fmt.Errorf("pipeline did not start after %d retries", pipelineStartMaxRetries)
}

func serveAPI(ppln pipeline.Pipeline, port string, taggerLogger zerolog.Logger) {
	apiRequest := &api.Request{Pipeline: ppln}
	mux := http.NewServeMux()
	mux.HandleFunc("/", apiRequest.ProcessData)
	host := fmt.Sprintf(":%s", port)
	taggerLogger.Info().Str("host", host).Msg("Starting REST API")
	err := http.ListenAndServe(host, mux)
	taggerLogger.Fatal().Caller().Err(err).Msg("REST API stopped with error")
}

// sleep waits for d and reports false when ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
