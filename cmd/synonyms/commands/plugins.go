package commands

import (
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/synonym-backend/internal/format"
)

func (c *cli) pluginsCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "plugins",
		Short:       "List the registered import and export plugins",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writePluginTable(cmd.OutOrStdout())
		},
	}
}

// writePluginTable renders one row per plugin. Import rows list the accepted
// file extensions, export rows the payload content type.
func writePluginTable(w io.Writer) error {
	table := tablewriter.NewTable(w)
	table.Header("Kind", "ID", "Label", "Details")

	for _, id := range format.ParserIDs() {
		p, err := format.NewParser(id)
		if err != nil {
			return err
		}
		if err := table.Append("import", p.ID(), p.Label(), strings.Join(p.Extensions(), ", ")); err != nil {
			return err
		}
	}

	for _, id := range format.RendererIDs() {
		r, err := format.NewRenderer(id)
		if err != nil {
			return err
		}
		if err := table.Append("export", r.ID(), r.Label(), r.ContentType()); err != nil {
			return err
		}
	}

	return table.Render()
}
