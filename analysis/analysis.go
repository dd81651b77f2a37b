package analysis

import (
	"fmt"
	"io"
	"os"
	"path"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

type deltaAnalyzer struct {
	deltas []float64
}

// DeltaAnalyzer records the change of every sweep, its dataset is a []float64
func DeltaAnalyzer() Analyzer {
	return &deltaAnalyzer{}
}

func (d *deltaAnalyzer) Analyze(s *Summary) {
	d.deltas = s.Trace.Deltas()
}

func (d *deltaAnalyzer) DataSet() DataSet {
	return d.deltas
}

func (d *deltaAnalyzer) Reset() {
	d.deltas = nil
}

type iterationsAnalyzer struct {
	summary Summary
}

// IterationsAnalyzer keeps the Summary of the run, without its trace
func IterationsAnalyzer() Analyzer {
	return &iterationsAnalyzer{}
}

func (i *iterationsAnalyzer) Analyze(s *Summary) {
	i.summary = *s
	i.summary.Trace = nil
}

func (i *iterationsAnalyzer) DataSet() DataSet {
	return i.summary
}

func (i *iterationsAnalyzer) Reset() {
	i.summary = Summary{}
}

// IterationsPrinter writes one line per experiment for IterationsAnalyzer datasets
func IterationsPrinter(w io.Writer) Comparator {
	return func(names []string, ds []DataSet) error {
		for i := 0; i < len(names); i++ {
			s := ds[i].(Summary)
			_, err := fmt.Fprintf(w, "%-20s iterations: %6d, converged: %5v, delta: %.3e, time: %s\n",
				names[i], s.Iterations, s.Converged, s.Delta, s.Duration)
			if err != nil {
				return err
			}
		}
		return nil
	}
}

// ConvergencePlotter draws the delta of every sweep on a log scale,
// one line per experiment
func ConvergencePlotter(plotPath string) Comparator {
	return func(names []string, ds []DataSet) error {
		if err := os.MkdirAll(plotPath, os.ModePerm); err != nil {
			return err
		}
		p := plot.New()
		p.Title.Text = "Convergence"
		p.X.Label.Text = "Iteration"
		p.Y.Label.Text = "Max value change"
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
		for i := 0; i < len(names); i++ {
			deltas := ds[i].([]float64)
			points := make(plotter.XYs, 0, len(deltas))
			for k, d := range deltas {
				// zero does not fit a log scale
				if d <= 0 {
					continue
				}
				points = append(points, plotter.XY{
					X: float64(k + 1),
					Y: d,
				})
			}
			if len(points) == 0 {
				continue
			}
			line, err := plotter.NewLine(points)
			if err != nil {
				return err
			}
			line.Color = plotutil.Color(i)
			p.Add(line)
			p.Legend.Add(names[i], line)
		}
		return p.Save(8*vg.Inch, 8*vg.Inch, path.Join(plotPath, "convergence.png"))
	}
}

// ConvergenceChart renders the same data as ConvergencePlotter as an html chart
func ConvergenceChart(chartPath string) Comparator {
	return func(names []string, ds []DataSet) error {
		if err := os.MkdirAll(chartPath, os.ModePerm); err != nil {
			return err
		}
		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{
				Title: "Convergence",
			}),
			charts.WithYAxisOpts(opts.YAxis{
				Type: "log",
			}),
		)

		longest := 0
		for i := range names {
			if l := len(ds[i].([]float64)); l > longest {
				longest = l
			}
		}
		steps := make([]string, longest)
		for k := range steps {
			steps[k] = strconv.Itoa(k + 1)
		}
		line = line.SetXAxis(steps)

		for i, name := range names {
			deltas := ds[i].([]float64)
			items := make([]opts.LineData, 0, len(deltas))
			for _, d := range deltas {
				items = append(items, opts.LineData{Value: d})
			}
			line.AddSeries(name, items)
		}

		page := components.NewPage()
		page.AddCharts(line)
		f, err := os.Create(path.Join(chartPath, "convergence.html"))
		if err != nil {
			return err
		}
		defer f.Close()
		return page.Render(f)
	}
}

// ValueHeatmap saves a heatmap of a grid of values
func ValueHeatmap(filePath, title string, data plotter.GridXYZ) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Column"
	p.Y.Label.Text = "Row"
	p.Add(plotter.NewHeatMap(data, palette.Heat(20, 1)))
	return p.Save(6*vg.Inch, 6*vg.Inch, filePath)
}
