// Package cli builds the command line interface for an OpenManus MCP
// server. The agent implementation is injected, so embedders wire their own
// agent factory and get a ready-made binary:
//
//	func main() {
//		root := cli.NewRootCommand(myAgentFactory)
//		if err := root.Execute(); err != nil {
//			os.Exit(1)
//		}
//	}
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/encryptedcommerce/OpenManus/config"
	"github.com/encryptedcommerce/OpenManus/core"
	"github.com/encryptedcommerce/OpenManus/logging"
	"github.com/encryptedcommerce/OpenManus/mcpserver"
)

// NewRootCommand builds the root command with serve and config subcommands.
func NewRootCommand(factory core.Factory) *cobra.Command {
	root := &cobra.Command{
		Use:           "openmanus-mcp",
		Short:         "Expose an OpenManus agent as an MCP tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "path to the YAML configuration file")

	root.AddCommand(serveCmd(factory))
	root.AddCommand(configCmd())

	return root
}

func serveCmd(factory core.Factory) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the agent tool over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}

			logger := logging.NewLogger(&logging.LoggerConfig{
				Level:  logging.ParseLevel(cfg.Log.Level),
				Format: cfg.Log.Format,
			})

			srv, err := mcpserver.New(cfg, factory, logger)
			if err != nil {
				return err
			}
			return srv.Serve()
		},
	}
}

func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to render config: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

// resolveConfig loads the file named by --config, or the defaults when no
// file was given.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
