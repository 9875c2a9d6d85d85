package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/plus3/gridsnake/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsFinalize(t *testing.T) {
	stats := Stats{}
	for i := 1; i <= 100; i++ {
		stats.Samples = append(stats.Samples, time.Duration(i)*time.Millisecond)
	}
	stats.Finalize()

	assert.Equal(t, time.Millisecond, stats.Min)
	assert.Equal(t, 100*time.Millisecond, stats.Max)
	assert.Equal(t, 50500*time.Microsecond, stats.Avg)
	assert.Equal(t, 50*time.Millisecond, stats.P50)
	assert.Equal(t, 95*time.Millisecond, stats.P95)
	assert.Equal(t, 99*time.Millisecond, stats.P99)
	assert.Positive(t, stats.StdDev)
}

func TestStatsFinalizeEmpty(t *testing.T) {
	stats := Stats{}
	stats.Finalize()
	assert.Zero(t, stats.Avg)
}

func TestWriteSystemCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "systems.csv")
	stats := []ecs.SystemStats{
		{Name: "movement", ExecutionCount: 3, MinDuration: 10, MaxDuration: 30, AvgDuration: 20, TotalDuration: 60},
		{Name: "lifetime", ExecutionCount: 3, MinDuration: 1, MaxDuration: 3, AvgDuration: 2, TotalDuration: 6},
	}

	require.NoError(t, WriteSystemCSV(path, stats))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "system,executions,min_ns,max_ns,avg_ns,total_ns\n"))

	var records []SystemRecord
	require.NoError(t, gocsv.UnmarshalBytes(data, &records))
	assert.Equal(t, systemRecords(stats), records)
}

func TestReportGenerate(t *testing.T) {
	report := &Report{
		Duration: time.Second,
		Entities: 10,
		Systems:  3,
		Parallel: true,
		SystemStats: []ecs.SystemStats{
			{Name: "movement", ExecutionCount: 5},
		},
		World: ecs.WorldStats{TotalEntityCount: 10, ArchetypeCount: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, report.Generate(&buf))

	out := buf.String()
	assert.Contains(t, out, "**Parallel Dispatch:** true")
	assert.Contains(t, out, "**movement:** 5 runs")
	assert.Contains(t, out, "**Live Entities:** 10")
	assert.NotContains(t, out, "GC Pause Durations")
}
