// Package commands holds the cobra command tree of the synonyms CLI.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/synonym-backend/internal/app"
	"github.com/heartmarshall/synonym-backend/internal/config"
	"github.com/heartmarshall/synonym-backend/internal/domain"
)

// skipConfig marks commands that run without loading configuration.
const skipConfig = "skip-config"

type cli struct {
	configPath string
	cfg        *config.Config
	log        *slog.Logger
}

// Execute runs the CLI with SIGINT/SIGTERM cancelling the command context and
// returns the process exit code.
func Execute() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", userMessage(err))
		return 1
	}
	return 0
}

// NewRootCommand builds the full command tree.
func NewRootCommand() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "synonyms",
		Short:         "Import, export and serve synonym lists",
		Version:       app.BuildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipConfig] != "" {
				return nil
			}
			return c.loadConfig()
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $CONFIG_PATH or ./config.yaml)")

	root.AddCommand(
		c.exportCmd(),
		c.importCmd(),
		c.migrateCmd(),
		c.serveCmd(),
		c.pluginsCmd(),
		c.tokenCmd(),
	)
	return root
}

func (c *cli) loadConfig() error {
	loadEnvFiles()

	path := c.configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	cfg, err := config.LoadPath(path)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.log = app.NewLogger(cfg.Log)
	return nil
}

// openApp builds the application for one command run; callers must Close it.
func (c *cli) openApp(cmd *cobra.Command) (*app.App, error) {
	return app.New(cmd.Context(), c.cfg, c.log)
}

// loadEnvFiles loads .env then .env.local; missing files are ignored and
// variables already set in the environment win.
func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		_ = godotenv.Load(name)
	}
}

// userMessage renders err for a terminal user.
func userMessage(err error) string {
	var (
		pluginErr *domain.UnknownPluginError
		valErr    *domain.ValidationError
	)
	switch {
	case errors.As(err, &pluginErr):
		if len(pluginErr.Known) == 0 {
			return fmt.Sprintf("unknown plugin %q", pluginErr.ID)
		}
		return fmt.Sprintf("unknown plugin %q; available plugins: %s",
			pluginErr.ID, strings.Join(pluginErr.Known, ", "))
	case errors.As(err, &valErr):
		parts := make([]string, len(valErr.Errors))
		for i, fe := range valErr.Errors {
			parts[i] = fe.Field + ": " + fe.Message
		}
		return "invalid input: " + strings.Join(parts, "; ")
	case errors.Is(err, context.Canceled):
		return "interrupted"
	default:
		return err.Error()
	}
}
