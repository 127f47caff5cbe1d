package main

import (
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	lsconfig "github.com/initia-labs/liquidstaking/x/liquidstaking/config"
)

// liquidstakingAppConfig is the app.toml section owned by the module.
type liquidstakingAppConfig struct {
	LiquidStakingConfig lsconfig.LiquidStakingConfig `mapstructure:"liquidstaking"`
}

// initAppConfig returns the config template and the effective values read
// from flags and environment.
func initAppConfig(v *viper.Viper) (string, liquidstakingAppConfig) {
	return lsconfig.DefaultConfigTemplate, liquidstakingAppConfig{
		LiquidStakingConfig: lsconfig.GetConfig(v),
	}
}

func configCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the app.toml section of the liquidstaking module",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, appConfig := initAppConfig(v)

			tmpl, err := template.New("liquidstaking").Parse(text)
			if err != nil {
				return err
			}

			return tmpl.Execute(cmd.OutOrStdout(), appConfig)
		},
	}

	lsconfig.AddConfigFlags(cmd)
	return cmd
}
