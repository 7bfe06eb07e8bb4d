// Package sweep measures proof size and prover/verifier time over a grid of
// (rate, req) and plots the result.
package sweep

import (
	"fmt"
	"io"
	"time"

	"ligerozk/internal/config"
	"ligerozk/internal/engine"
	"ligerozk/internal/prof"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/tuneinsight/lattigo/v4/utils"
)

// Options selects the grid. Progress may be nil.
type Options struct {
	Base     config.Params
	Rates    []int
	Reqs     []int
	Progress io.Writer
}

// Point is one measured parameter set.
type Point struct {
	Rate   int           `json:"rate"`
	Req    int           `json:"req"`
	Bytes  int           `json:"bytes"`
	Commit time.Duration `json:"commit"`
	Prove  time.Duration `json:"prove"`
	Verify time.Duration `json:"verify"`
	OK     bool          `json:"ok"`
}

// Run proves and verifies Base.Batch demo instances for every grid point.
// Proofs use a keyed PRNG so reruns are comparable.
func Run(o Options) ([]Point, error) {
	var rec prof.Recorder
	eng, err := engine.New(o.Base.Field, &rec)
	if err != nil {
		return nil, err
	}
	if len(o.Rates) == 0 || len(o.Reqs) == 0 {
		return nil, fmt.Errorf("sweep: empty grid")
	}
	var bar *progressbar.ProgressBar
	if o.Progress != nil {
		bar = progressbar.NewOptions(len(o.Rates)*len(o.Reqs),
			progressbar.OptionSetWriter(o.Progress),
			progressbar.OptionSetDescription("sweep "+o.Base.Field),
			progressbar.OptionShowCount(),
		)
	}
	rows := engine.Demo(o.Base.Batch)
	out := make([]Point, 0, len(o.Rates)*len(o.Reqs))
	for _, rate := range o.Rates {
		for _, req := range o.Reqs {
			p := o.Base
			p.Rate, p.Req = rate, req
			if err := p.Validate(); err != nil {
				return nil, err
			}
			prng, err := utils.NewKeyedPRNG([]byte(fmt.Sprintf("sweep/%d/%d", rate, req)))
			if err != nil {
				return nil, err
			}
			proof, err := eng.Prove(p, rows, prng)
			if err != nil {
				return nil, fmt.Errorf("sweep: rate=%d req=%d: %w", rate, req, err)
			}
			ok, err := eng.Verify(p, engine.Public(rows), proof)
			if err != nil {
				return nil, fmt.Errorf("sweep: rate=%d req=%d: %w", rate, req, err)
			}
			pt := Point{
				Rate:   rate,
				Req:    req,
				Bytes:  len(proof),
				Commit: rec.Total("commit"),
				Prove:  rec.Total("prove"),
				Verify: rec.Total("verify"),
				OK:     ok,
			}
			rec.SnapshotAndReset()
			log.Debug().Int("rate", rate).Int("req", req).Int("bytes", pt.Bytes).Bool("ok", ok).Msg("sweep point")
			out = append(out, pt)
			if bar != nil {
				_ = bar.Add(1)
			}
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return out, nil
}

// Chart renders proof size against req, one series per rate, with prover
// time in the tooltip.
func Chart(points []Point, title string, w io.Writer) error {
	page := components.NewPage().SetPageTitle(title)

	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "item",
			Formatter: opts.FuncOpts(`
function (p) {
  var v = p.value || [];
  return '<b>rate ' + p.seriesName + '</b><br/>' +
    'req=' + v[0] + '<br/>' +
    'size: ' + v[1] + ' KB<br/>' +
    'prove: ' + v[2] + ' ms<br/>' +
    'verify: ' + v[3] + ' ms';
}`),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "req (opened columns)",
			Type:      "value",
			AxisLabel: &opts.AxisLabel{Formatter: "{value}"},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "Proof size (KB)",
			Type:      "value",
			AxisLabel: &opts.AxisLabel{Formatter: "{value}"},
		}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: opts.Bool(true),
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{Show: opts.Bool(true)},
			},
		}),
	)

	byRate := map[int][]opts.ScatterData{}
	var order []int
	for _, pt := range points {
		if _, ok := byRate[pt.Rate]; !ok {
			order = append(order, pt.Rate)
		}
		ms := func(d time.Duration) float64 { return float64(d.Microseconds()) / 1000 }
		byRate[pt.Rate] = append(byRate[pt.Rate], opts.ScatterData{
			Value: []interface{}{pt.Req, float64(pt.Bytes) / 1024, ms(pt.Commit + pt.Prove), ms(pt.Verify)},
		})
	}
	for _, rate := range order {
		sc.AddSeries(fmt.Sprintf("%d", rate), byRate[rate],
			charts.WithScatterChartOpts(opts.ScatterChart{Symbol: "circle", SymbolSize: 8}),
		)
	}
	page.AddCharts(sc)
	return page.Render(w)
}
