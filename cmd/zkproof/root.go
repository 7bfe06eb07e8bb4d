package main

import (
	"os"

	"ligerozk/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	fConfig   string
	fRate     int
	fReq      int
	fLabel    string
	fField    string
	fBatch    int
	fLogLevel string
)

var rootCmd = &cobra.Command{
	Use:           "zkproof",
	Short:         "Ligero/sumcheck zero-knowledge proofs for a·b = c",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		lvl, err := zerolog.ParseLevel(fLogLevel)
		if err != nil {
			return err
		}
		zerolog.SetGlobalLevel(lvl)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("zkproof")
		os.Exit(1)
	}
}

func init() {
	d := config.Default()
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&fConfig, "config", "", "JSON parameter file (rate, req, label, field, batch)")
	pf.IntVar(&fRate, "rate", d.Rate, "Reed-Solomon expansion factor")
	pf.IntVar(&fReq, "req", d.Req, "number of opened columns")
	pf.StringVar(&fLabel, "label", d.Label, "Fiat-Shamir transcript label")
	pf.StringVar(&fField, "field", d.Field, "field backend: p256 or bn254")
	pf.IntVar(&fBatch, "batch", d.Batch, "instances per proof when none are given")
	pf.StringVar(&fLogLevel, "log-level", "info", "zerolog level")
}

// params loads --config and lets explicitly set flags override it.
func params(cmd *cobra.Command) (config.Params, error) {
	p := config.Default()
	if fConfig != "" {
		var err error
		if p, err = config.Load(fConfig); err != nil {
			return p, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("rate") {
		p.Rate = fRate
	}
	if flags.Changed("req") {
		p.Req = fReq
	}
	if flags.Changed("label") {
		p.Label = fLabel
	}
	if flags.Changed("field") {
		p.Field = fField
	}
	if flags.Changed("batch") {
		p.Batch = fBatch
	}
	return p, p.Validate()
}
