// Package config holds app-wide settings unmarshalled from Viper
// (defaults in code, optionally overridden by a settings.yaml and by
// command-line flags bound in /internal/app).
package config

import (
	"runtime"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// SignalConfig configures the genomic-signal feature block.
type SignalConfig struct {
	// directory holding indexed signal track files
	Dir string `mapstructure:"dir"`

	// signal sources the model schema expects, matched against track
	// file names by prefix
	Expected []string `mapstructure:"expected"`

	// symmetric window extensions (bp) applied around each candidate
	Extensions []int `mapstructure:"extensions"`

	// interval aggregation: mean, max or sum
	Aggregation string `mapstructure:"aggregation"`
}

// ModelConfig maps the experimental modes to their model directories.
type ModelConfig struct {
	// models trained for CRISPRa (activation)
	ActivationDir string `mapstructure:"activation-dir"`

	// models trained for CRISPRi (interference)
	InterferenceDir string `mapstructure:"interference-dir"`
}

// Config is the root settings struct passed into every component.
type Config struct {
	// input records longer than this are skipped
	MaxSeqLen int `mapstructure:"max-seq-len"`

	// worker parallelism for feature computation and scoring
	Threads int `mapstructure:"threads"`

	Signal SignalConfig `mapstructure:"signal"`
	Models ModelConfig  `mapstructure:"models"`
}

// SetDefaults installs the default settings on v. Call before binding
// flags or reading a settings file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("max-seq-len", 500)
	v.SetDefault("threads", runtime.NumCPU())
	v.SetDefault("signal.dir", "bigwig")
	v.SetDefault("signal.expected", []string{
		"H2AZ", "H3K4me1", "H3K4me3", "H3K9ac", "H3K27ac",
		"H3K27me3", "H3K36me3", "H3K9me3", "DNase",
	})
	v.SetDefault("signal.extensions", []int{0, 200, 1000})
	v.SetDefault("signal.aggregation", "mean")
	v.SetDefault("models.activation-dir", "model_crispra")
	v.SetDefault("models.interference-dir", "model_crispri")
}

// New returns a Config populated from v.
func New(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "config: decode settings")
	}
	return c, nil
}

// ModelDir resolves a mode letter to its model directory: "a" for
// activation, "i" for interference.
func (c Config) ModelDir(mode string) (string, error) {
	switch mode {
	case "a":
		return c.Models.ActivationDir, nil
	case "i":
		return c.Models.InterferenceDir, nil
	}
	return "", errors.Errorf("config: unknown mode %q (want a or i)", mode)
}

// ModeName is the human-readable name of a mode letter.
func ModeName(mode string) string {
	if mode == "a" {
		return "CRISPRa"
	}
	return "CRISPRi"
}
