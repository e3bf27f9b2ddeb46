package main

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tactile/internal/envparams"
	"tactile/internal/runconfig"
)

func newParamsCmd(_ settings) *cobra.Command {
	var (
		cfgPath string
		samples int
		seed    uint64
	)
	cmd := &cobra.Command{
		Use:   "params --cfg <file>",
		Short: "Print the environment parameter bounds derived from a run config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfgPath == "" {
				return errors.New("--cfg is required")
			}
			if samples < 0 {
				return errors.New("samples must be >= 0")
			}
			doc, err := runconfig.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			envName, ok := doc.Lookup(runconfig.SectionEnv, "env_name")
			if !ok {
				return fmt.Errorf("%w: env.env_name", runconfig.ErrMissingKey)
			}
			overrides, _ := doc.Lookup(runconfig.SectionEnv, "params")
			params, _ := overrides.(map[string]any)

			lower, upper, err := envparams.DeriveBounds(fmt.Sprint(envName), params)
			if err != nil {
				return err
			}
			out := map[string]any{"lower": lower, "upper": upper}
			if samples > 0 {
				src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
				draws := make([]envparams.Params, samples)
				for i := range draws {
					draws[i] = envparams.Randomize(lower, upper, src)
				}
				out["samples"] = draws
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringVar(&cfgPath, "cfg", "", "run config file")
	cmd.Flags().IntVar(&samples, "samples", 0, "also print N randomized parameter draws")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "seed for randomized draws")
	return cmd
}
