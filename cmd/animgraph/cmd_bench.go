package main

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-anim/engine/graph_pool"
	"github.com/Carmen-Shannon/oxy-anim/engine/profiler"
)

var benchFlags struct {
	instances int
	frames    int
	workers   int
	deltaTime float32
}

var benchCmd = &cobra.Command{
	Use:   "bench <asset.yaml>",
	Short: "Update many instances of a graph in parallel and report throughput",
	Args:  cobra.ExactArgs(1),
	RunE:  runBench,
}

func init() {
	f := benchCmd.Flags()
	f.IntVarP(&benchFlags.instances, "instances", "i", 1000, "Number of graph instances")
	f.IntVarP(&benchFlags.frames, "frames", "n", 300, "Number of frames to update")
	f.IntVarP(&benchFlags.workers, "workers", "w", max(runtime.NumCPU()-1, 1), "Number of update workers")
	f.Float32Var(&benchFlags.deltaTime, "dt", 1.0/60.0, "Frame delta time in seconds")
}

func runBench(cmd *cobra.Command, args []string) error {
	if benchFlags.instances <= 0 || benchFlags.frames <= 0 {
		return fmt.Errorf("--instances and --frames must be positive")
	}
	def, err := loadDefinition(args[0])
	if err != nil {
		return err
	}

	pool := graph_pool.NewPool(
		graph_pool.WithWorkers(benchFlags.workers),
		graph_pool.WithLogger(slog.Default()),
	)
	defer pool.Release()

	ctx := cmd.Context()
	spawnStart := time.Now()
	if _, err := pool.SpawnN(ctx, def, benchFlags.instances); err != nil {
		return err
	}
	spawnTime := time.Since(spawnStart)

	prof := profiler.NewProfiler(profiler.WithLogger(slog.Default()))
	updateStart := time.Now()
	for range benchFlags.frames {
		if err := pool.UpdateAll(ctx, benchFlags.deltaTime); err != nil {
			return err
		}
		prof.Tick(pool.Count())
	}
	updateTime := time.Since(updateStart)
	stats := prof.Flush()

	updates := benchFlags.instances * benchFlags.frames
	w := newTable()
	w.SetTitle(def.Name)
	w.AppendHeader(table.Row{"Metric", "Value"})
	w.AppendRows([]table.Row{
		{"Instances", benchFlags.instances},
		{"Frames", benchFlags.frames},
		{"Workers", benchFlags.workers},
		{"Spawn time", spawnTime.Round(time.Microsecond)},
		{"Update time", updateTime.Round(time.Microsecond)},
		{"Per frame", (updateTime / time.Duration(benchFlags.frames)).Round(time.Microsecond)},
		{"Updates/sec", fmt.Sprintf("%.0f", float64(updates)/updateTime.Seconds())},
		{"Heap", fmt.Sprintf("%.2f MB", stats.HeapMB)},
		{"GC cycles", stats.GCCount},
	})
	fmt.Fprintln(cmd.OutOrStdout(), w.Render())
	return nil
}
