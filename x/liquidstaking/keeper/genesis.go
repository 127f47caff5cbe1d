package keeper

import (
	"context"

	"cosmossdk.io/collections"

	"github.com/initia-labs/liquidstaking/x/liquidstaking/types"
)

// InitGenesis sets the module state from genesis. Panics on invalid state.
func (k Keeper) InitGenesis(ctx context.Context, data *types.GenesisState) {
	if err := k.Config.Set(ctx, data.Config); err != nil {
		panic(err)
	}

	if err := k.NextPoolID.Set(ctx, data.NextPoolID); err != nil {
		panic(err)
	}

	for _, pool := range data.Pools {
		if err := k.Pools.Set(ctx, pool.ID, pool); err != nil {
			panic(err)
		}

		if err := k.PoolsByValidatorContract.Set(ctx, pool.ValidatorContract, pool.ID); err != nil {
			panic(err)
		}

		if err := k.PoolsByRewardContract.Set(ctx, pool.RewardContract, pool.ID); err != nil {
			panic(err)
		}

		for _, val := range pool.Validators {
			if err := k.ValidatorPoolIndex.Set(ctx, val, pool.ID); err != nil {
				panic(err)
			}
		}
	}

	for _, entry := range data.ValidatorMetas {
		if err := k.SetValidatorMeta(ctx, entry.Validator, entry.PoolID, entry.Meta); err != nil {
			panic(err)
		}
	}

	for _, batch := range data.Batches {
		if err := k.SetUndelegationBatch(ctx, batch); err != nil {
			panic(err)
		}
	}

	for _, entry := range data.AirdropRegistry {
		if err := k.AirdropRegistry.Set(ctx, entry.Denom, entry.Info); err != nil {
			panic(err)
		}
	}
}

// ExportGenesis returns a GenesisState for a given context and keeper.
func (k Keeper) ExportGenesis(ctx context.Context) *types.GenesisState {
	config, err := k.GetConfig(ctx)
	if err != nil {
		panic(err)
	}

	genState := types.NewGenesisState(config)

	genState.NextPoolID, err = k.NextPoolID.Peek(ctx)
	if err != nil {
		panic(err)
	}

	err = k.Pools.Walk(ctx, nil, func(_ uint64, pool types.Pool) (bool, error) {
		genState.Pools = append(genState.Pools, pool)
		return false, nil
	})
	if err != nil {
		panic(err)
	}

	err = k.ValidatorMetas.Walk(ctx, nil, func(key collections.Pair[string, uint64], meta types.ValidatorMeta) (bool, error) {
		genState.ValidatorMetas = append(genState.ValidatorMetas, types.ValidatorMetaEntry{
			Validator: key.K1(),
			PoolID:    key.K2(),
			Meta:      meta,
		})
		return false, nil
	})
	if err != nil {
		panic(err)
	}

	err = k.UndelegationBatches.Walk(ctx, nil, func(_ collections.Pair[uint64, uint64], batch types.UndelegationBatch) (bool, error) {
		genState.Batches = append(genState.Batches, batch)
		return false, nil
	})
	if err != nil {
		panic(err)
	}

	err = k.AirdropRegistry.Walk(ctx, nil, func(denom string, info types.AirdropRegistryInfo) (bool, error) {
		genState.AirdropRegistry = append(genState.AirdropRegistry, types.AirdropRegistryEntry{
			Denom: denom,
			Info:  info,
		})
		return false, nil
	})
	if err != nil {
		panic(err)
	}

	return genState
}
