package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tactile/internal/ctxlog"
	"tactile/internal/storage"
)

const envPrefix = "TACTILE"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// settings are the process-level options shared by every command. Each can
// also come from a TACTILE_* environment variable.
type settings struct {
	v *viper.Viper
}

func (s settings) logLevel() string  { return s.v.GetString("log-level") }
func (s settings) logFormat() string { return s.v.GetString("log-format") }
func (s settings) storeKind() string { return s.v.GetString("store") }
func (s settings) dbPath() string    { return s.v.GetString("db-path") }

func (s settings) trackRoot() (string, error) {
	if root := s.v.GetString("track-root"); root != "" {
		return root, nil
	}
	return os.Getwd()
}

func newRootViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

func newRootCmd() *cobra.Command {
	v := newRootViper()
	s := settings{v: v}

	root := &cobra.Command{
		Use:           "tactilectl",
		Short:         "Prepare and launch tactile manipulation training runs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := ctxlog.New(cmd.ErrOrStderr(), s.logFormat(), s.logLevel())
			if err != nil {
				return err
			}
			cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.String("log-level", "info", "log level: debug|info|warn|error")
	pf.String("log-format", "", "log format: text|json (default: text on a terminal, json otherwise)")
	pf.String("store", storage.DefaultStoreKind(), "run store backend: memory|sqlite")
	pf.String("db-path", "tactile.db", "sqlite database path")
	pf.String("track-root", "", "track directory holding weights and training_log (default: working directory)")
	_ = v.BindPFlags(pf)

	root.AddCommand(newTrainCmd(s), newParamsCmd(s), newRunsCmd(s))
	return root
}
