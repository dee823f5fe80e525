package types

import (
	"text2phenotype.com/hmmtagger/logger"
	"gopkg.in/yaml.v3"
	"io/ioutil"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
)

type Variant string

const (
	// tagger variants
	VariantBaseline Variant = "baseline"
	VariantSimple   Variant = "simple"
	VariantHapax    Variant = "hapax"
	VariantExtra    Variant = "extra"

	DefaultVariant = VariantExtra
)

func (v Variant) Valid() bool {
	switch v {
	case VariantBaseline, VariantSimple, VariantHapax, VariantExtra:
		return true
	}
	return false
}

type Configuration struct {
	Name         string  `yaml:"-" json:"name"`
	FilePath     string  `yaml:"-" json:"file_path"`
	Variant      Variant `yaml:"variant" json:"variant"`
	Smoothing    float64 `yaml:"smoothing" json:"smoothing,omitempty"`
	TrainingFile string  `yaml:"training_file" json:"training_file,omitempty"`
}

func LoadConfigurations(dirPath string) ([]Configuration, error) {
	taggerLogger := logger.NewLogger("LoadConfigurations")

	files, err := ioutil.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	configChan := make(chan Configuration, len(files))
	for _, f := range files {
		// Skip dirs and non-yaml files
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".yaml") {
			continue
		}

		wg.Add(1)
		go func(file os.FileInfo) {
			defer wg.Done()
			cfg := Configuration{
				Name:     strings.TrimSuffix(file.Name(), ".yaml"),
				FilePath: path.Join(dirPath, file.Name()),
			}
			buf, err := ioutil.ReadFile(cfg.FilePath)
			if err != nil {
				taggerLogger.Err(err).Str("file", cfg.FilePath).Msg("Failed to read configuration")
				return
			}
			if err := yaml.Unmarshal(buf, &cfg); err != nil {
				taggerLogger.Err(err).Str("file", cfg.FilePath).Msg("Failed to parse configuration")
				return
			}

			if cfg.Variant == "" {
				cfg.Variant = DefaultVariant
			}
			if !cfg.Variant.Valid() {
				taggerLogger.Error().
					Str("file", cfg.FilePath).
					Str("variant", string(cfg.Variant)).
					Msg("Wrong tagger variant")
				return
			}
			if cfg.TrainingFile != "" && !path.IsAbs(cfg.TrainingFile) {
				cfg.TrainingFile = path.Join(dirPath, cfg.TrainingFile)
			}

			configChan <- cfg
		}(f)
	}

	go func() {
		wg.Wait()
		close(configChan)
	}()

	configs := make([]Configuration, 0, len(configChan))
	for cfg := range configChan {
		configs = append(configs, cfg)
	}
	// goroutines finish in any order
	sort.Slice(configs, func(i, j int) bool { return configs[i].Name < configs[j].Name })
	return configs, nil
}
