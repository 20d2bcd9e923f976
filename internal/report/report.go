// Package report renders a sweep manifest as a standalone HTML page with
// per-instance charts, for eyeballing a run without opening the JSON.
package report

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/vk/mdpgridgo/internal/dataset"
)

// FileName is the report written into a sweep's base directory.
const FileName = "report.html"

// Write renders the manifest to an HTML file at path. Failed and skipped
// instances are left out of the charts; they are visible in the page
// subtitle and the manifest itself.
func Write(path string, m *dataset.Manifest) error {
	completed := make([]dataset.InstanceOutcome, 0, len(m.Instances))
	for _, inst := range m.Instances {
		if inst.Status == dataset.StatusOK {
			completed = append(completed, inst)
		}
	}

	page := components.NewPage()
	page.AddCharts(
		returnsChart(m, completed),
		solveChart(completed),
		durationChart(completed),
	)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

func returnsChart(m *dataset.Manifest, completed []dataset.InstanceOutcome) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Returns per instance",
			Subtitle: fmt.Sprintf("run %s: %d instances, %d failed. Target is the expert rollout; mean is over replays.",
				m.RunID, len(m.Instances), m.Failed()),
		}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
	)

	targets := make([]opts.BarData, 0, len(completed))
	means := make([]opts.BarData, 0, len(completed))
	for _, inst := range completed {
		targets = append(targets, opts.BarData{Value: inst.TargetReturn})
		means = append(means, opts.BarData{Value: inst.MeanReturn})
	}
	bar.SetXAxis(dirs(completed))
	bar.AddSeries("target_return", targets)
	bar.AddSeries("mean_return", means)
	return bar
}

func solveChart(completed []dataset.InstanceOutcome) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Solver sweeps until convergence"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
	)

	sweeps := make([]opts.BarData, 0, len(completed))
	for _, inst := range completed {
		sweeps = append(sweeps, opts.BarData{Value: inst.SolveSweeps})
	}
	bar.SetXAxis(dirs(completed))
	bar.AddSeries("sweeps", sweeps)
	return bar
}

func durationChart(completed []dataset.InstanceOutcome) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Generation time per instance (ms)"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
	)

	durations := make([]opts.LineData, 0, len(completed))
	for _, inst := range completed {
		durations = append(durations, opts.LineData{Value: inst.DurationMS})
	}
	line.SetXAxis(dirs(completed))
	line.AddSeries("duration_ms", durations)
	return line
}

func dirs(instances []dataset.InstanceOutcome) []string {
	names := make([]string, 0, len(instances))
	for _, inst := range instances {
		names = append(names, inst.Dir)
	}
	return names
}
