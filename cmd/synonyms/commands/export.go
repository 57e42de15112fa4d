package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/synonym-backend/internal/domain"
	"github.com/heartmarshall/synonym-backend/internal/format"
	"github.com/heartmarshall/synonym-backend/internal/service/synonym"
)

func (c *cli) exportCmd() *cobra.Command {
	var (
		input  synonym.ExportInput
		filter string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render active synonyms of one language through an export plugin",
		Example: `  synonyms export --plugin solr --language en
  synonyms export --plugin csv --language de --type spelling_error --output de.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			if !format.HasRenderer(input.Plugin) {
				return &domain.UnknownPluginError{ID: input.Plugin, Known: format.RendererIDs()}
			}

			a, err := c.openApp(cmd)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := a.Close(); err == nil {
					err = cerr
				}
			}()

			input.Filter = synonym.ExportFilter(filter)
			res, err := a.Synonyms.Export(cmd.Context(), input)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(res.Payload)
				return err
			}
			if err := os.WriteFile(output, res.Payload, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "exported %d records to %s\n", res.Count, output)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&input.Plugin, "plugin", "", "export plugin id (see 'synonyms plugins')")
	f.StringVar(&input.Language, "language", "", "language code, e.g. en")
	f.StringVar(&input.Type, "type", synonym.TypeAll, "all, synonym or spelling_error")
	f.StringVar(&filter, "filter", "", "all, nospace or onlyspace")
	f.StringVarP(&output, "output", "o", "", "output file (default stdout)")
	_ = cmd.MarkFlagRequired("plugin")
	_ = cmd.MarkFlagRequired("language")

	return cmd
}
