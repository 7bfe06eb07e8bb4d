package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"ligerozk/internal/engine"
	"ligerozk/internal/service"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var errRejected = errors.New("proof rejected")

var verifyCmd = &cobra.Command{
	Use:   "verify <proof.json>",
	Short: "verify a proof written by prove under the current parameters",
	Args:  cobra.ExactArgs(1),
	RunE:  verify,
}

func verify(cmd *cobra.Command, args []string) error {
	p, err := params(cmd)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var in service.ProveResponse
	if err := json.Unmarshal(raw, &in); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	if in.Rate != p.Rate || in.Req != p.Req || in.Field != p.Field {
		log.Warn().
			Int("fileRate", in.Rate).Int("fileReq", in.Req).Str("fileField", in.Field).
			Msg("proof file was written under other parameters")
	}
	eng, err := engine.New(p.Field, nil)
	if err != nil {
		return err
	}
	ok, err := eng.Verify(p, in.Inputs, in.Proof)
	if err != nil {
		return err
	}
	if !ok {
		return errRejected
	}
	fmt.Fprintln(cmd.OutOrStdout(), "proof valid")
	return nil
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
