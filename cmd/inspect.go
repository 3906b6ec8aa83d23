package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/r2lab/meshtrace/core"
	"github.com/r2lab/meshtrace/state"
	"github.com/spf13/cobra"
)

var inspectSample int

var inspectCmd = &cobra.Command{
	Use:     "inspect <routes-file>",
	Aliases: []string{"i"},
	Short:   "Shows hop counts and loops of a route summary",
	Long: `Reads a ROUTES-NN file, or one sample of a ROUTES-NN-SAMPLE file with --sample, and prints one row per route.
Loop lines do not name their destination, pass --nodes to label them.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		if inspectSample < 0 {
			count, err := core.CountSamples(f)
			if err != nil {
				return err
			}
			if count > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s has %d samples, select one with --sample\n", args[0], count)
				return nil
			}
			_, err = f.Seek(0, io.SeekStart)
			if err != nil {
				return err
			}
		}

		var lines []string
		if inspectSample >= 0 {
			lines, err = core.ReadSampleRoutes(f, inspectSample)
		} else {
			lines, err = core.ReadRoutes(f)
		}
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return fmt.Errorf("no routes found in %s", args[0])
		}

		routes := make([]core.RouteSummary, 0, len(lines))
		for _, line := range lines {
			r, err := core.ParseRoute(line)
			if err != nil {
				return err
			}
			routes = append(routes, r)
		}
		if len(nodeIds) != 0 {
			err = core.AssignDestinations(routes, toNodeIds(nodeIds), routes[0].Src)
			if err != nil {
				return err
			}
		}
		renderRoutes(cmd.OutOrStdout(), routes)
		return nil
	},
	GroupID: "util",
}

func renderRoutes(w io.Writer, routes []core.RouteSummary) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"SRC", "DST", "HOPS", "STATUS", "PATH"})
	for _, r := range routes {
		dst := "?"
		if r.Dst != state.NoRoute {
			dst = r.Dst.String()
		}
		hops := "-"
		if r.Valid() {
			hops = strconv.Itoa(r.HopCount())
		}
		path := make([]string, 0, len(r.Path))
		for _, n := range r.Path {
			path = append(path, n.String())
		}
		table.Append([]string{r.Src.String(), dst, hops, r.Status(), strings.Join(path, " -> ")})
	}
	table.Render()
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().IntVarP(&inspectSample, "sample", "S", -1, "sample to inspect in a sampled summary")
}
