package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/plus3/gridsnake/ecs"
	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/stat"
)

type Report struct {
	// Configuration
	Duration time.Duration
	Entities int
	Systems  int
	Parallel bool

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     Stats
	SystemStats    []ecs.SystemStats
	World          ecs.WorldStats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	StdDev  time.Duration
	P50     time.Duration
	P95     time.Duration
	P99     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	values := make([]float64, len(s.Samples))
	for i, sample := range s.Samples {
		values[i] = float64(sample)
	}
	slices.Sort(values)

	s.Min = time.Duration(values[0])
	s.Max = time.Duration(values[len(values)-1])

	mean, std := stat.MeanStdDev(values, nil)
	s.Avg = time.Duration(mean)
	if len(values) > 1 {
		s.StdDev = time.Duration(std)
	}

	s.P50 = time.Duration(stat.Quantile(0.50, stat.Empirical, values, nil))
	s.P95 = time.Duration(stat.Quantile(0.95, stat.Empirical, values, nil))
	s.P99 = time.Duration(stat.Quantile(0.99, stat.Empirical, values, nil))
}

// SystemRecord is one CSV row of per-system timings
type SystemRecord struct {
	System     string `csv:"system"`
	Executions int64  `csv:"executions"`
	MinNs      int64  `csv:"min_ns"`
	MaxNs      int64  `csv:"max_ns"`
	AvgNs      int64  `csv:"avg_ns"`
	TotalNs    int64  `csv:"total_ns"`
}

func systemRecords(stats []ecs.SystemStats) []SystemRecord {
	records := make([]SystemRecord, len(stats))
	for i, s := range stats {
		records[i] = SystemRecord{
			System:     s.Name,
			Executions: s.ExecutionCount,
			MinNs:      s.MinDuration.Nanoseconds(),
			MaxNs:      s.MaxDuration.Nanoseconds(),
			AvgNs:      s.AvgDuration.Nanoseconds(),
			TotalNs:    s.TotalDuration.Nanoseconds(),
		}
	}
	return records
}

// WriteSystemCSV writes one row per system to path
func WriteSystemCSV(path string, stats []ecs.SystemStats) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "creating %s", path)
	}
	defer f.Close()

	if err := gocsv.Marshal(systemRecords(stats), f); err != nil {
		return eris.Wrapf(err, "writing %s", path)
	}
	return nil
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# ECS Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Target Entities:** {{.Entities}}
- **Systems:** {{.Systems}}
- **Parallel Dispatch:** {{.Parallel}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}} (stddev {{.UpdateTime.StdDev}})
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}
  - **P50 / P95 / P99:** {{.UpdateTime.P50}} / {{.UpdateTime.P95}} / {{.UpdateTime.P99}}

## Systems
{{range .SystemStats}}- **{{.Name}}:** {{.ExecutionCount}} runs, avg {{.AvgDuration}}, max {{.MaxDuration}}
{{end}}
## World
- **Live Entities:** {{.World.TotalEntityCount}}
- **Archetypes:** {{.World.ArchetypeCount}}
{{range .World.ArchetypeBreakdown}}  - {{.ComponentTypes}}: {{.EntityCount}} live / {{.Capacity}} rows
{{end}}
## Memory Usage (MB)
- Heap Alloc:     {{mb .MemStatsStart.HeapAlloc}} (start) -> {{mb .MemStatsEnd.HeapAlloc}} (end) -> delta: {{mb (bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc)}}
- Total Alloc:    {{mb .MemStatsStart.TotalAlloc}} (start) -> {{mb .MemStatsEnd.TotalAlloc}} (end) -> delta: {{mb (bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc)}}
- Sys Memory:     {{mb .MemStatsStart.Sys}} (start) -> {{mb .MemStatsEnd.Sys}} (end) -> delta: {{mb (bsub .MemStatsEnd.Sys .MemStatsStart.Sys)}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"mb": func(v any) string {
			switch val := v.(type) {
			case uint64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			case int64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			default:
				return "N/A"
			}
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return eris.Wrap(err, "parsing report template")
	}

	return tmpl.Execute(w, r)
}
