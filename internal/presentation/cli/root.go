package cli

import (
	"github.com/attarhouse/attarhouse-api/internal/config"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	envFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "attarhouse",
		Short: "Order engine for the Attar House perfume store",
		Long: "attarhouse places and amends sale and purchase orders, moving stock and " +
			"party balances with them, and serves the order API used by the tills.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "env file to read configuration from")

	serve := newServeCmd(opts)
	cmd.AddCommand(serve)
	cmd.AddCommand(newMigrateCmd(opts))
	cmd.AddCommand(newSeedCmd(opts))
	cmd.AddCommand(newTokenCmd(opts))

	// A bare invocation runs the API
	cmd.RunE = serve.RunE
	cmd.Flags().AddFlagSet(serve.Flags())
	return cmd
}

func (o *rootOptions) config() (*config.Config, error) {
	cfg := config.LoadFile(o.envFile)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
