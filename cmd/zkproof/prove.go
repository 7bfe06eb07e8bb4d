package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"ligerozk/internal/engine"
	"ligerozk/internal/service"
	"ligerozk/zk"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var fProofOut string

var proveCmd = &cobra.Command{
	Use:   "prove [c:a:b ...]",
	Short: "prove knowledge of a, b with a·b = c and write the proof as JSON",
	Long: "Each argument is one instance c:a:b. Without arguments --batch demo " +
		"instances are proved.",
	RunE: prove,
}

func parseInstance(s string) (engine.Instance, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return engine.Instance{}, fmt.Errorf("instance %q: want c:a:b", s)
	}
	var v [3]uint64
	for i, p := range parts {
		x, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return engine.Instance{}, fmt.Errorf("instance %q: %w", s, err)
		}
		v[i] = x
	}
	return engine.Instance{C: v[0], A: v[1], B: v[2]}, nil
}

func prove(cmd *cobra.Command, args []string) error {
	p, err := params(cmd)
	if err != nil {
		return err
	}
	rows := engine.Demo(p.Batch)
	if len(args) > 0 {
		rows = rows[:0]
		for _, a := range args {
			in, err := parseInstance(a)
			if err != nil {
				return err
			}
			rows = append(rows, in)
		}
	}
	eng, err := engine.New(p.Field, nil)
	if err != nil {
		return err
	}
	rng, err := zk.NewRandomness()
	if err != nil {
		return err
	}

	log.Info().Str("field", p.Field).Int("rate", p.Rate).Int("req", p.Req).Int("instances", len(rows)).Msg("Creating proof")
	start := time.Now()
	proof, err := eng.Prove(p, rows, rng)
	if err != nil {
		return err
	}
	log.Info().Msg("Successfully created proof, time: " + time.Since(start).String())
	rep, err := eng.Report(p, len(rows))
	if err != nil {
		return err
	}
	log.Info().
		Int("total", rep.Total).
		Int("columns", rep.Columns).
		Int("paths", rep.Paths).
		Int("linear", rep.Linear).
		Int("lowDegree", rep.LowDegree).
		Msg("proof size")

	out, err := json.MarshalIndent(service.ProveResponse{
		Inputs: engine.Public(rows),
		Proof:  proof,
		Rate:   p.Rate,
		Req:    p.Req,
		Label:  p.Label,
		Field:  p.Field,
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(fProofOut, out, 0o644)
}

func init() {
	proveCmd.Flags().StringVar(&fProofOut, "out", "proof_with_inputs.json", "proof output file")
	rootCmd.AddCommand(proveCmd)
}
