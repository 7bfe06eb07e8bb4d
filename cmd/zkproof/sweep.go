package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"ligerozk/internal/sweep"

	"github.com/spf13/cobra"
)

var (
	fRates    []int
	fReqs     []int
	fChartOut string
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "measure proof size and timings over a (rate, req) grid",
	RunE:  runSweep,
}

func runSweep(cmd *cobra.Command, args []string) error {
	p, err := params(cmd)
	if err != nil {
		return err
	}
	points, err := sweep.Run(sweep.Options{Base: p, Rates: fRates, Reqs: fReqs, Progress: os.Stderr})
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "rate\treq\tbytes\tcommit\tprove\tverify\tok")
	for _, pt := range points {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%v\t%v\t%v\t%v\n", pt.Rate, pt.Req, pt.Bytes, pt.Commit, pt.Prove, pt.Verify, pt.OK)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if fChartOut == "" {
		return nil
	}
	f, err := os.Create(fChartOut)
	if err != nil {
		return err
	}
	defer f.Close()
	return sweep.Chart(points, fmt.Sprintf("Proof size vs. req (%s, batch %d)", p.Field, p.Batch), f)
}

func init() {
	sweepCmd.Flags().IntSliceVar(&fRates, "rates", []int{2, 4, 8}, "rates to measure")
	sweepCmd.Flags().IntSliceVar(&fReqs, "reqs", []int{8, 16, 32}, "req values to measure")
	sweepCmd.Flags().StringVar(&fChartOut, "chart", "sweep.html", "HTML chart output, empty to skip")
	rootCmd.AddCommand(sweepCmd)
}
