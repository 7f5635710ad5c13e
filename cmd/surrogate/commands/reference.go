package commands

import (
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/surrogate/internal/portal"
)

var courtsCmd = &cobra.Command{
	Use:   "courts",
	Short: "List the courts that can be searched",
	Run: func(cmd *cobra.Command, args []string) {
		writeCourts(cmd.OutOrStdout())
	},
}

var proceedingsCmd = &cobra.Command{
	Use:   "proceedings [filter]",
	Short: "List proceeding types for file_info searches",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filter := ""
		if len(args) == 1 {
			filter = args[0]
		}
		writeProceedings(cmd.OutOrStdout(), filter)
	},
}

func init() {
	rootCmd.AddCommand(courtsCmd)
	rootCmd.AddCommand(proceedingsCmd)
}

func writeCourts(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Court", "Code"})
	for _, name := range slices.Sorted(maps.Keys(portal.Courts)) {
		t.AppendRow(table.Row{name, portal.Courts[name]})
	}
	t.Render()
}

// writeProceedings lists proceeding types containing filter, ignoring case.
func writeProceedings(w io.Writer, filter string) {
	filter = strings.ToUpper(strings.TrimSpace(filter))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Proceeding"})
	for _, p := range portal.Proceedings {
		if strings.Contains(strings.ToUpper(p), filter) {
			t.AppendRow(table.Row{p})
		}
	}
	t.Render()
}
