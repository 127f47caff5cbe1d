package main

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cosmossdk.io/log"
)

const (
	// EnvPrefix is the prefix of the environment variables overriding flags.
	EnvPrefix = "LIQUIDSTAKING"

	flagLogLevel = "log-level"
)

// NewRootCmd creates a new root command for liquidstakingd. It is called
// once in the main function.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:           "liquidstakingd",
		Short:         "Offline tooling for the liquidstaking module",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return v.BindPFlags(cmd.Flags())
		},
	}

	rootCmd.PersistentFlags().String(flagLogLevel, zerolog.InfoLevel.String(), "The logging level (trace|debug|info|warn|error|fatal|panic)")

	rootCmd.AddCommand(
		genesisCommand(),
		configCommand(v),
		replayCommand(v),
	)

	return rootCmd
}

// newLogger builds the command logger the same way the node does: a plain
// level, or a module filter such as "x/liquidstaking:debug,*:error".
func newLogger(cmd *cobra.Command, v *viper.Viper) (log.Logger, error) {
	levelStr := v.GetString(flagLogLevel)

	var opts []log.Option
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		filter, err := log.ParseLogLevel(levelStr)
		if err != nil {
			return nil, err
		}
		opts = append(opts, log.FilterOption(filter))
	} else {
		opts = append(opts, log.LevelOption(level))
	}

	return log.NewLogger(cmd.ErrOrStderr(), opts...), nil
}
