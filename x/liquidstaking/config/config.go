package config

import (
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	servertypes "github.com/cosmos/cosmos-sdk/server/types"
)

// DefaultQueryMaxPageLimit - default cap on the page size of list queries
const DefaultQueryMaxPageLimit = uint64(100)

const (
	flagQueryMaxPageLimit = "liquidstaking.query-max-page-limit"
	flagPoolGauges        = "liquidstaking.pool-gauges"
)

// LiquidStakingConfig is the node local config of the liquidstaking module.
// None of it affects consensus.
type LiquidStakingConfig struct {
	QueryMaxPageLimit uint64 `mapstructure:"query-max-page-limit"`
	PoolGauges        bool   `mapstructure:"pool-gauges"`
}

// DefaultLiquidStakingConfig returns the default settings for LiquidStakingConfig
func DefaultLiquidStakingConfig() LiquidStakingConfig {
	return LiquidStakingConfig{
		QueryMaxPageLimit: DefaultQueryMaxPageLimit,
		PoolGauges:        true,
	}
}

// GetConfig load config values from the app options
func GetConfig(appOpts servertypes.AppOptions) LiquidStakingConfig {
	cfg := DefaultLiquidStakingConfig()
	if v := appOpts.Get(flagQueryMaxPageLimit); v != nil {
		cfg.QueryMaxPageLimit = cast.ToUint64(v)
	}
	if v := appOpts.Get(flagPoolGauges); v != nil {
		cfg.PoolGauges = cast.ToBool(v)
	}

	return cfg
}

// AddConfigFlags registers the liquidstaking flags on the start command.
func AddConfigFlags(startCmd *cobra.Command) {
	startCmd.Flags().Uint64(flagQueryMaxPageLimit, DefaultQueryMaxPageLimit, "Set the max page size of liquidstaking list queries")
	startCmd.Flags().Bool(flagPoolGauges, true, "Report per pool stake and slashing pointer gauges")
}

// DefaultConfigTemplate default config template for liquidstaking module
const DefaultConfigTemplate = `
###############################################################################
###                         Liquid Staking                                  ###
###############################################################################

[liquidstaking]
# The maximum page size of pool and batch list queries.
query-max-page-limit = "{{ .LiquidStakingConfig.QueryMaxPageLimit }}"

# Report per pool stake and slashing pointer gauges to telemetry.
pool-gauges = {{ .LiquidStakingConfig.PoolGauges }}
`
