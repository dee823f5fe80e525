package main

import (
	"text2phenotype.com/hmmtagger/logger"
	"text2phenotype.com/hmmtagger/types"
	"errors"
	"flag"
	"github.com/joho/godotenv"
	"io/fs"
	"os"
	"runtime"
)

const wrapFlag = "wrap"

type cliFlags struct {
	wrap bool
	local
}

func parseFlags(args []string) (cliFlags, error) {
	var flags cliFlags
	fset := flag.NewFlagSet("hmmtagger", flag.ContinueOnError)
	fset.BoolVar(&flags.wrap, wrapFlag, false, "run the tagger as a child process and re-emit its logs")
	fset.StringVar(&flags.trainPath, "train", "", "tagged training corpus (word=TAG per token, one sentence per line); enables local mode")
	fset.StringVar(&flags.testPath, "test", "", "untagged corpus to tag, one sentence per line")
	fset.StringVar(&flags.goldPath, "gold", "", "tagged reference corpus; its words are tagged when -test is empty")
	fset.StringVar(&flags.outPath, "out", "", "where to write word=TAG output (stdout when empty)")
	fset.StringVar((*string)(&flags.variant), "variant", string(types.DefaultVariant), "baseline, simple, hapax or extra")
	fset.Float64Var(&flags.smoothing, "smoothing", 0, "additive smoothing constant, 0 for the variant default")
	fset.IntVar(&flags.workers, "workers", runtime.NumCPU(), "sentences decoded in parallel")
	err := fset.Parse(args)
	return flags, err
}

// withoutWrapFlag drops -wrap so the child process does not wrap itself again.
func withoutWrapFlag(args []string) []string {
	res := make([]string, 0, len(args))
	for _, arg := range args {
		switch arg {
		case "-" + wrapFlag, "--" + wrapFlag, "-" + wrapFlag + "=true", "--" + wrapFlag + "=true":
			continue
		}
		res = append(res, arg)
	}
	return res
}

func main() {
	logger.SetupLogging()
	taggerLogger := logger.NewLogger("Main")

	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		taggerLogger.Fatal().Err(err).Msg("Failed to parse flags")
	}

	if flags.wrap {
		logger.WrapProcess(os.Args[0], withoutWrapFlag(os.Args[1:])...)
		return
	}

	if err = godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		taggerLogger.Warn().Err(err).Msg("Failed to load .env file")
	}

	if flags.trainPath != "" {
		if err = flags.local.run(taggerLogger); err != nil {
			taggerLogger.Fatal().Caller().Err(err).Msg("Local tagging failed")
		}
		return
	}

	runService(taggerLogger)
}
