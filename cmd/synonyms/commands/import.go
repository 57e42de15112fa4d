package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/synonym-backend/internal/domain"
	"github.com/heartmarshall/synonym-backend/internal/format"
	"github.com/heartmarshall/synonym-backend/internal/service/synonym"
	"github.com/heartmarshall/synonym-backend/pkg/ctxutil"
)

func (c *cli) importCmd() *cobra.Command {
	var (
		formatID string
		path     string
		owner    string
		typ      string
		policy   string
		settings domain.ImportSettings
		opts     = format.DefaultOptions()
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a synonym file into the store",
		Example: `  synonyms import --file run.csv --language en --owner 0191b7c4-...
  synonyms import --format json --file list.json --language en --update-existing overwrite --owner 0191b7c4-...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			ownerID, err := uuid.Parse(owner)
			if err != nil {
				return domain.NewValidationError("owner", "must be a UUID")
			}
			if formatID == "" {
				formatID = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
			}

			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer file.Close()

			a, err := c.openApp(cmd)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := a.Close(); err == nil {
					err = cerr
				}
			}()

			settings.Type = domain.SynonymType(typ)
			settings.UpdateExisting = domain.UpdatePolicy(policy)

			ctx := ctxutil.WithOwnerID(cmd.Context(), ownerID)
			res, err := a.Synonyms.Import(ctx, synonym.ImportInput{
				Format:   formatID,
				Source:   file,
				Filename: filepath.Base(path),
				Options:  opts,
				Settings: settings,
			})
			if err != nil {
				return err
			}

			printImportResult(cmd, res)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&formatID, "format", "", "import plugin id (default: file extension)")
	f.StringVar(&path, "file", "", "file to import")
	f.StringVar(&owner, "owner", "", "owner id stamped on created records")
	f.StringVar(&settings.Language, "language", "", "language code, e.g. en")
	f.StringVar(&typ, "type", string(domain.SynonymTypeSynonym), "synonym or spelling_error")
	f.StringVar(&policy, "update-existing", string(domain.UpdatePolicyMerge), "merge or overwrite")
	f.BoolVar(&settings.Active, "active", true, "mark created records active")
	f.StringVar(&opts.Delimiter, "delimiter", opts.Delimiter, "CSV field delimiter")
	f.StringVar(&opts.Enclosure, "enclosure", opts.Enclosure, "CSV field enclosure; empty disables quoting")
	f.BoolVar(&opts.HeaderRow, "header-row", false, "skip the first CSV row")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("owner")
	_ = cmd.MarkFlagRequired("language")

	return cmd
}

func printImportResult(cmd *cobra.Command, res *synonym.ImportResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d imported, %d failed\n", len(res.Succeeded), len(res.Failed))
	for _, f := range res.Failed {
		fmt.Fprintf(out, "  %s: %s\n", f.Word, f.Reason)
	}

	errOut := cmd.ErrOrStderr()
	for _, w := range res.Warnings {
		fmt.Fprintf(errOut, "warning: line %d: %s\n", w.Line, w.Reason)
	}
}
