// internal/app/app.go

// Package app wires the cobra command line to the scanning pipeline.
package app

import (
	"io"
	"os"
	"path/filepath"

	"treecrispr/config"
	"treecrispr/core/fasta"
	"treecrispr/internal/pipeline"
	"treecrispr/internal/signal"
	"treecrispr/internal/writers"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is stamped by the build.
var Version = "0.1.0"

type options struct {
	input      string
	output     string
	mode       string
	format     string
	configFile string
	verbose    bool
}

// NewRootCmd builds the treecrispr command tree. stdout is the default
// result destination when no output path is given.
func NewRootCmd(stdout io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use: "treecrispr",
		Short: `Scan DNA sequences for CRISPR guide candidates and score them
with pre-trained tree-ensemble models`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	run := &cobra.Command{
		Use:   "run",
		Short: "Scan a FASTA file and write scored guide candidates",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(opts, stdout)
		},
	}
	run.Flags().StringVarP(&opts.input, "input", "i", "", "path to input FASTA file (required)")
	run.Flags().StringVarP(&opts.output, "output", "o", "", "path to output file (default stdout)")
	run.Flags().StringVar(&opts.mode, "mode", "", "experimental mode: 'a' (CRISPRa) or 'i' (CRISPRi) (required)")
	run.Flags().StringVar(&opts.format, "format", "csv", "output format: csv, tsv or json")
	run.Flags().StringVar(&opts.configFile, "config", "", "path to settings.yaml")
	run.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	_ = run.MarkFlagRequired("input")
	_ = run.MarkFlagRequired("mode")

	root.AddCommand(run)
	return root
}

// Execute runs the command tree; called once from main.
func Execute() {
	if err := NewRootCmd(os.Stdout).Execute(); err != nil {
		logrus.Fatalf("%v", err)
	}
}

func newLogger(verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05"})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func loadConfig(path string) (config.Config, error) {
	v := viper.New()
	config.SetDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return config.Config{}, errors.Wrap(err, "read settings")
		}
	}
	return config.New(v)
}

func runPipeline(opts *options, stdout io.Writer) error {
	log := newLogger(opts.verbose)

	cfg, err := loadConfig(opts.configFile)
	if err != nil {
		return err
	}

	modelDir, err := cfg.ModelDir(opts.mode)
	if err != nil {
		return err
	}
	if _, err := os.Stat(modelDir); err != nil {
		return errors.Errorf("model directory missing: %s", modelDir)
	}

	log.Infof("starting %s pipeline", config.ModeName(opts.mode))
	log.Infof("model directory: %s", modelDir)
	log.Infof("reading sequences from %s", opts.input)

	records, err := fasta.ReadFile(opts.input)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		log.Warn("no valid sequences found in input file")
		return nil
	}
	log.Infof("loaded %d sequences", len(records))

	p := &pipeline.Pipeline{
		MaxSeqLen: cfg.MaxSeqLen,
		Threads:   cfg.Threads,
		Signal: signal.New(cfg.Signal.Dir, cfg.Signal.Expected,
			cfg.Signal.Extensions, cfg.Signal.Aggregation, log),
		Log: log,
	}
	res, err := p.Run(records, modelDir)
	if err != nil {
		return err
	}
	if res.Empty() {
		log.Warn("pipeline finished but generated no results (check if valid PAMs exist)")
	}

	out := stdout
	if opts.output != "" {
		if dir := filepath.Dir(opts.output); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return errors.Wrap(err, "create output directory")
			}
		}
		fh, err := os.Create(opts.output)
		if err != nil {
			return errors.Wrap(err, "create output file")
		}
		defer func() { _ = fh.Close() }()
		out = fh
	}
	if err := writers.Write(opts.format, out, res); err != nil {
		return err
	}
	if opts.output != "" {
		log.Infof("results saved to %s", opts.output)
	}
	log.Infof("total candidates scored: %d", len(res.Candidates))
	return nil
}
