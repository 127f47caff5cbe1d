package types

import (
	"fmt"
	stdmath "math"
	"time"

	"cosmossdk.io/math"
	"gopkg.in/yaml.v3"

	"github.com/pkg/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Default config values
const (
	DefaultUnbondingPeriod     = uint64(21 * 24 * 3600) // 21 days, in seconds
	DefaultUnbondingBuffer     = uint64(3600)           // an hour, in seconds
	DefaultReconcileBatchLimit = uint64(10)

	// MaxDurationSeconds is the longest period, in seconds, a time.Duration can hold.
	MaxDurationSeconds = uint64(stdmath.MaxInt64 / int64(time.Second))
)

var (
	DefaultVaultDenom = sdk.DefaultBondDenom
	DefaultMinDeposit = math.NewInt(1_000)
	DefaultMaxDeposit = math.NewInt(1_000_000_000_000)
)

// Config is the module level configuration, set at genesis and mutated
// only by the manager through MsgUpdateConfig.
type Config struct {
	Manager           string `json:"manager" yaml:"manager"`
	VaultDenom        string `json:"vault_denom" yaml:"vault_denom"`
	DelegatorContract string `json:"delegator_contract" yaml:"delegator_contract"`
	SccContract       string `json:"scc_contract" yaml:"scc_contract"`

	MinDeposit math.Int `json:"min_deposit" yaml:"min_deposit"`
	MaxDeposit math.Int `json:"max_deposit" yaml:"max_deposit"`

	// UnbondingPeriod and UnbondingBuffer are in seconds.
	UnbondingPeriod uint64 `json:"unbonding_period" yaml:"unbonding_period"`
	UnbondingBuffer uint64 `json:"unbonding_buffer" yaml:"unbonding_buffer"`

	// ReconcileBatchLimit caps the number of batches a single
	// MsgReconcileFunds settles.
	ReconcileBatchLimit uint64 `json:"reconcile_batch_limit" yaml:"reconcile_batch_limit"`
}

// State carries the module counters exposed to queries.
type State struct {
	NextPoolID uint64 `json:"next_pool_id" yaml:"next_pool_id"`
}

// NewConfig creates a new Config instance with default durations.
func NewConfig(
	manager, vaultDenom, delegatorContract, sccContract string,
	minDeposit, maxDeposit math.Int,
) Config {
	return Config{
		Manager:             manager,
		VaultDenom:          vaultDenom,
		DelegatorContract:   delegatorContract,
		SccContract:         sccContract,
		MinDeposit:          minDeposit,
		MaxDeposit:          maxDeposit,
		UnbondingPeriod:     DefaultUnbondingPeriod,
		UnbondingBuffer:     DefaultUnbondingBuffer,
		ReconcileBatchLimit: DefaultReconcileBatchLimit,
	}
}

// DefaultConfig returns the default config. The manager and collaborator
// contracts are left empty and must be filled at genesis.
func DefaultConfig() Config {
	return NewConfig("", DefaultVaultDenom, "", "", DefaultMinDeposit, DefaultMaxDeposit)
}

// String returns a human readable string representation of the config.
func (c Config) String() string {
	out, _ := yaml.Marshal(c)
	return string(out)
}

// Validate performs basic validation on the config
func (c Config) Validate() error {
	if err := sdk.ValidateDenom(c.VaultDenom); err != nil {
		return errors.Wrap(err, "invalid vault denom")
	}

	if err := validateDeposits(c.MinDeposit, c.MaxDeposit); err != nil {
		return errors.Wrap(err, "invalid deposit bounds")
	}

	if c.UnbondingPeriod == 0 {
		return errors.New("unbonding period must be bigger than 0")
	}

	if c.UnbondingPeriod > MaxDurationSeconds {
		return errors.Errorf("unbonding period must not exceed %d seconds", MaxDurationSeconds)
	}

	if c.UnbondingBuffer > MaxDurationSeconds {
		return errors.Errorf("unbonding buffer must not exceed %d seconds", MaxDurationSeconds)
	}

	if c.ReconcileBatchLimit == 0 {
		return errors.New("reconcile batch limit must be bigger than 0")
	}

	return nil
}

// IsManager returns true if the given address is the manager.
func (c Config) IsManager(addr string) bool {
	return c.Manager != "" && c.Manager == addr
}

func validateDeposits(minDeposit, maxDeposit math.Int) error {
	if minDeposit.IsNil() || maxDeposit.IsNil() {
		return fmt.Errorf("deposit bounds must be set")
	}

	if minDeposit.IsNegative() {
		return fmt.Errorf("min deposit should not be negative: %s", minDeposit)
	}

	if maxDeposit.LT(minDeposit) {
		return fmt.Errorf("max deposit %s should not be smaller than min deposit %s", maxDeposit, minDeposit)
	}

	return nil
}
