package commands

import (
	"github.com/spf13/cobra"
)

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP import/export API",
		Long: `Run the HTTP API until interrupted. In-flight batched imports finish
before the store is closed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			if err := c.cfg.RequireAuth(); err != nil {
				return err
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

			return a.Serve(cmd.Context())
		},
	}
}
