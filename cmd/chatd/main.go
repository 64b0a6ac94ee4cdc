// Command chatd serves the conversational memory engine: it classifies,
// routes, and answers chat turns, retrieving and consolidating long-term
// memory as it goes.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kart-io/logger"

	"github.com/kart-io/sentinel-x/internal/chatd"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logger.Fatalw("chatd exited with error", "error", err.Error())
	}
}

// newRootCommand builds the chatd cobra tree: a config-file-aware root plus
// serve and migrate subcommands, following pkg/infra/app's viper-backed
// config loading without depending on that package's missing options.CliOptions
// wiring.
func newRootCommand() *cobra.Command {
	var configFile string
	opts := chatd.NewOptions()

	root := &cobra.Command{
		Use:          "chatd",
		Short:        "Conversational memory engine",
		Long:         "chatd classifies and routes chat turns, assembles prompts from short- and long-term memory, and streams responses back to callers.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file (yaml)")
	opts.AddFlags(root.PersistentFlags())

	root.AddCommand(newServeCommand(opts, &configFile))
	root.AddCommand(newMigrateCommand(opts, &configFile))

	return root
}

func newServeCommand(opts *chatd.Options, configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, *configFile, opts); err != nil {
				return err
			}

			ctx := chatd.SetupSignalContext()
			app, err := chatd.Build(ctx, opts)
			if err != nil {
				return fmt.Errorf("build app: %w", err)
			}
			defer func() {
				if err := app.Close(ctx); err != nil {
					logger.Warnw("error closing app", "error", err.Error())
				}
			}()

			return app.Serve(ctx)
		},
	}
}

func newMigrateCommand(opts *chatd.Options, configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the relational schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, *configFile, opts); err != nil {
				return err
			}

			ctx := chatd.SetupSignalContext()
			app, err := chatd.Build(ctx, opts)
			if err != nil {
				return fmt.Errorf("build app: %w", err)
			}
			defer func() {
				if err := app.Close(ctx); err != nil {
					logger.Warnw("error closing app", "error", err.Error())
				}
			}()

			if err := app.Migrate(ctx); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			logger.Infow("migration complete")
			return nil
		},
	}
}

// loadConfig loads chatd.yaml (or the path named by -c/--config) through
// viper, then unmarshals it onto opts, mirroring pkg/infra/app.App's
// loadConfig shape.
func loadConfig(cmd *cobra.Command, configFile string, opts *chatd.Options) error {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("chatd")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".chatd"))
		viper.AddConfigPath("/etc/chatd")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("read config file: %w", err)
		}
	}

	viper.SetEnvPrefix("CHATD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if !f.Changed {
			_ = viper.BindPFlag(f.Name, f)
		}
	})

	if err := viper.Unmarshal(opts); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	return opts.Complete()
}
