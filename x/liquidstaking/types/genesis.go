package types

import (
	"fmt"
)

// GenesisState defines the liquidstaking module's genesis state.
type GenesisState struct {
	Config          Config                 `json:"config"`
	NextPoolID      uint64                 `json:"next_pool_id"`
	Pools           []Pool                 `json:"pools"`
	ValidatorMetas  []ValidatorMetaEntry   `json:"validator_metas"`
	Batches         []UndelegationBatch    `json:"batches"`
	AirdropRegistry []AirdropRegistryEntry `json:"airdrop_registry"`
}

// ValidatorMetaEntry is a validator track keyed by (validator, pool).
type ValidatorMetaEntry struct {
	Validator string        `json:"validator"`
	PoolID    uint64        `json:"pool_id"`
	Meta      ValidatorMeta `json:"meta"`
}

// AirdropRegistryEntry is an airdrop registry record keyed by denom.
type AirdropRegistryEntry struct {
	Denom string              `json:"denom"`
	Info  AirdropRegistryInfo `json:"info"`
}

// NewGenesisState creates a new GenesisState object
func NewGenesisState(config Config) *GenesisState {
	return &GenesisState{
		Config:          config,
		NextPoolID:      0,
		Pools:           []Pool{},
		ValidatorMetas:  []ValidatorMetaEntry{},
		Batches:         []UndelegationBatch{},
		AirdropRegistry: []AirdropRegistryEntry{},
	}
}

// DefaultGenesisState creates a default GenesisState object
func DefaultGenesisState() *GenesisState {
	return NewGenesisState(DefaultConfig())
}

// ValidateGenesis validates the provided genesis state to ensure the
// expected invariants holds.
func ValidateGenesis(data *GenesisState) error {
	if err := data.Config.Validate(); err != nil {
		return err
	}

	pools := make(map[uint64]Pool, len(data.Pools))
	validators := make(map[string]uint64)
	for _, pool := range data.Pools {
		if err := pool.Validate(); err != nil {
			return err
		}

		if pool.ID >= data.NextPoolID {
			return fmt.Errorf("pool id %d must be below next pool id %d", pool.ID, data.NextPoolID)
		}

		if _, ok := pools[pool.ID]; ok {
			return fmt.Errorf("duplicate pool id %d", pool.ID)
		}
		pools[pool.ID] = pool

		for _, val := range pool.Validators {
			if poolID, ok := validators[val]; ok {
				return fmt.Errorf("validator %s associated to pools %d and %d", val, poolID, pool.ID)
			}
			validators[val] = pool.ID
		}
	}

	for _, entry := range data.ValidatorMetas {
		pool, ok := pools[entry.PoolID]
		if !ok {
			return fmt.Errorf("validator meta %s references unknown pool %d", entry.Validator, entry.PoolID)
		}

		if !pool.HasValidator(entry.Validator) {
			return fmt.Errorf("validator %s is not part of pool %d", entry.Validator, entry.PoolID)
		}
	}

	open := make(map[uint64]bool, len(pools))
	for _, batch := range data.Batches {
		pool, ok := pools[batch.PoolID]
		if !ok {
			return fmt.Errorf("batch %d references unknown pool %d", batch.ID, batch.PoolID)
		}

		if batch.ID > pool.CurrentUndelegationBatchID {
			return fmt.Errorf("batch %d of pool %d is ahead of the current batch", batch.ID, batch.PoolID)
		}

		if batch.ID == pool.CurrentUndelegationBatchID {
			open[pool.ID] = true
		}
	}

	for id := range pools {
		if !open[id] {
			return fmt.Errorf("pool %d has no open undelegation batch", id)
		}
	}

	seen := make(map[string]struct{}, len(data.AirdropRegistry))
	for _, entry := range data.AirdropRegistry {
		if entry.Denom != AirdropDenom(entry.Denom) {
			return fmt.Errorf("airdrop denom %s must be lower case", entry.Denom)
		}

		if _, ok := seen[entry.Denom]; ok {
			return fmt.Errorf("duplicate airdrop denom %s", entry.Denom)
		}
		seen[entry.Denom] = struct{}{}
	}

	return nil
}
