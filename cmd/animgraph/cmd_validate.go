package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-anim/engine/graph"
)

var validateFlags struct {
	verbose bool
}

var validateCmd = &cobra.Command{
	Use:   "validate <asset.yaml>...",
	Short: "Load and instantiate graph assets, reporting structural errors",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().BoolVarP(&validateFlags.verbose, "verbose", "v", false, "List every node of valid assets")
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	w := newTable()
	w.AppendHeader(table.Row{"Asset", "Graph", "Nodes", "Clips", "Status"})

	failed := 0
	for _, path := range args {
		def, err := loadDefinition(path)
		if err != nil {
			failed++
			w.AppendRow(table.Row{path, "", "", "", err.Error()})
			continue
		}
		inst, err := graph.InstantiateGraph(def)
		if err != nil {
			failed++
			w.AppendRow(table.Row{path, def.Name, def.NumNodes(), def.Model.AnimationCount(), err.Error()})
			continue
		}
		inst.Destroy()
		w.AppendRow(table.Row{path, def.Name, def.NumNodes(), def.Model.AnimationCount(), "ok"})

		if validateFlags.verbose {
			fmt.Fprintln(out, nodeTable(def).Render())
		}
	}
	fmt.Fprintln(out, w.Render())

	if failed > 0 {
		return fmt.Errorf("%d of %d assets failed validation", failed, len(args))
	}
	return nil
}

func nodeTable(def *graph.Definition) table.Writer {
	w := newTable()
	w.SetTitle(def.Name)
	w.AppendHeader(table.Row{"#", "Kind", "Parameter"})
	for i, s := range def.Settings {
		param := ""
		if p, ok := s.(graph.ParameterSettings); ok {
			param = p.ParameterName()
		}
		mark := ""
		if int16(i) == def.RootNodeIdx {
			mark = " (root)"
		}
		w.AppendRow(table.Row{i, s.Kind().String() + mark, param})
	}
	return w
}
