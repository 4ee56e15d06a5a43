package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/kbouqdir/jobtrack/internal/track"
)

// Chart output filenames, matching the historical layout consumers
// already rely on.
const (
	StatusChartFile    = "status_distribution.png"
	TimelineChartFile  = "timeline.png"
	CompaniesChartFile = "top_companies.png"
	HeatmapChartFile   = "monthly_heatmap.png"
)

var (
	timelineColor  = color.RGBA{R: 0x34, G: 0x98, B: 0xdb, A: 0xff}
	companiesColor = color.RGBA{R: 0x2e, G: 0xcc, B: 0x71, A: 0xff}
)

// WriteCharts renders all four charts into dir. With zero records there
// is nothing to draw and no files are produced.
func WriteCharts(r track.Report, dir string, topN int) error {
	if r.Total == 0 {
		return nil
	}

	if err := writeStatusPie(r, filepath.Join(dir, StatusChartFile)); err != nil {
		return err
	}
	if err := writeTimeline(r, filepath.Join(dir, TimelineChartFile)); err != nil {
		return err
	}
	if err := writeTopCompanies(r, filepath.Join(dir, CompaniesChartFile), topN); err != nil {
		return err
	}
	return writeHeatmap(r, filepath.Join(dir, HeatmapChartFile))
}

// writeStatusPie renders the status distribution pie chart.
func writeStatusPie(r track.Report, path string) error {
	values := make([]chart.Value, 0, len(r.ByStatus))
	for _, status := range track.Statuses {
		count := r.ByStatus[status]
		if count == 0 {
			continue
		}
		values = append(values, chart.Value{
			Value: float64(count),
			Label: fmt.Sprintf("%s (%d)", status, count),
		})
	}

	pie := chart.PieChart{
		Title:  "Application Status Distribution",
		Width:  800,
		Height: 800,
		Values: values,
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := pie.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return nil
}

// writeTimeline renders applications per ISO week as a bar chart.
func writeTimeline(r track.Report, path string) error {
	values := make(plotter.Values, len(r.ByWeek))
	labels := make([]string, len(r.ByWeek))
	for i, b := range r.ByWeek {
		values[i] = float64(b.Count)
		labels[i] = b.Label
	}

	p := plot.New()
	p.Title.Text = "Application Activity Over Time"
	p.X.Label.Text = "Week"
	p.Y.Label.Text = "Applications"

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return fmt.Errorf("timeline bars: %w", err)
	}
	bars.Color = timelineColor
	p.Add(bars)
	p.NominalX(labels...)

	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// writeTopCompanies renders the most-applied-to companies as a
// horizontal bar chart, largest on top.
func writeTopCompanies(r track.Report, path string, topN int) error {
	top := r.TopCompanies(topN)

	// Reverse so the largest count renders at the top of the axis.
	values := make(plotter.Values, len(top))
	labels := make([]string, len(top))
	for i, c := range top {
		j := len(top) - 1 - i
		values[j] = float64(c.Count)
		labels[j] = c.Company
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Top %d Companies Applied To", len(top))
	p.X.Label.Text = "Applications"

	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return fmt.Errorf("company bars: %w", err)
	}
	bars.Horizontal = true
	bars.Color = companiesColor
	p.Add(bars)
	p.NominalY(labels...)

	if err := p.Save(12*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// monthStatusGrid adapts the month × status counts to the heatmap's
// grid interface. Columns are months, rows are statuses.
type monthStatusGrid struct {
	months []string
	counts map[string]map[track.Status]int
}

func (g monthStatusGrid) Dims() (c, r int) { return len(g.months), len(track.Statuses) }
func (g monthStatusGrid) X(c int) float64  { return float64(c) }
func (g monthStatusGrid) Y(r int) float64  { return float64(r) }

func (g monthStatusGrid) Z(c, r int) float64 {
	return float64(g.counts[g.months[c]][track.Statuses[r]])
}

// writeHeatmap renders the month × status heatmap.
func writeHeatmap(r track.Report, path string) error {
	grid := monthStatusGrid{months: r.Months, counts: r.ByMonthStatus}

	p := plot.New()
	p.Title.Text = "Application Status by Month"
	p.X.Label.Text = "Month"
	p.Y.Label.Text = "Status"

	pal := moreland.SmoothBlueRed().Palette(255)
	p.Add(plotter.NewHeatMap(grid, pal))

	xTicks := make([]plot.Tick, len(r.Months))
	for i, month := range r.Months {
		xTicks[i] = plot.Tick{Value: float64(i), Label: month}
	}
	p.X.Tick.Marker = plot.ConstantTicks(xTicks)

	yTicks := make([]plot.Tick, len(track.Statuses))
	for i, status := range track.Statuses {
		yTicks[i] = plot.Tick{Value: float64(i), Label: string(status)}
	}
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)

	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
