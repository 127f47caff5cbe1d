package keeper

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"

	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/initia-labs/liquidstaking/x/liquidstaking/types"
)

// GetPool returns the pool with the given id.
func (k Keeper) GetPool(ctx context.Context, poolID uint64) (types.Pool, error) {
	pool, err := k.Pools.Get(ctx, poolID)
	if errors.Is(err, collections.ErrNotFound) {
		return types.Pool{}, errorsmod.Wrapf(types.ErrPoolNotFound, "pool %d", poolID)
	}

	return pool, err
}

// getActivePool returns the pool with the given id, failing if it has been
// deactivated.
func (k Keeper) getActivePool(ctx context.Context, poolID uint64) (types.Pool, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return types.Pool{}, err
	}

	if !pool.Active {
		return types.Pool{}, errorsmod.Wrapf(types.ErrPoolInactive, "pool %d", poolID)
	}

	return pool, nil
}

// SetPool stores the pool and, unless disabled in the node config, reports
// its stake and slashing pointer.
func (k Keeper) SetPool(ctx context.Context, pool types.Pool) error {
	if err := k.Pools.Set(ctx, pool.ID, pool); err != nil {
		return err
	}

	if !k.config.PoolGauges {
		return nil
	}

	if pool.Staked.IsInt64() {
		telemetry.ModuleSetGauge(types.ModuleName, float32(pool.Staked.Int64()), "pool", pool.Name, "staked")
	}
	if f, err := pool.SlashingPointer.Float64(); err == nil {
		telemetry.ModuleSetGauge(types.ModuleName, float32(f), "pool", pool.Name, "slashing_pointer")
	}

	return nil
}

// IteratePools iterates over all pools in id order.
func (k Keeper) IteratePools(ctx context.Context, cb func(pool types.Pool) (stop bool, err error)) error {
	return k.Pools.Walk(ctx, nil, func(_ uint64, pool types.Pool) (bool, error) {
		return cb(pool)
	})
}

// GetValidatorMeta returns the tracked stake of a validator in a pool. A
// validator without a track is reported with zero stake.
func (k Keeper) GetValidatorMeta(ctx context.Context, val string, poolID uint64) (types.ValidatorMeta, error) {
	meta, err := k.ValidatorMetas.Get(ctx, collections.Join(val, poolID))
	if errors.Is(err, collections.ErrNotFound) {
		return types.NewValidatorMeta(), nil
	}

	return meta, err
}

// SetValidatorMeta stores the tracked stake of a validator in a pool.
func (k Keeper) SetValidatorMeta(ctx context.Context, val string, poolID uint64, meta types.ValidatorMeta) error {
	return k.ValidatorMetas.Set(ctx, collections.Join(val, poolID), meta)
}

// AddPool registers a new pool and opens its first undelegation batch.
func (k Keeper) AddPool(ctx context.Context, msg *types.MsgAddPool) (types.Pool, []types.Instruction, error) {
	if found, err := k.PoolsByValidatorContract.Has(ctx, msg.ValidatorContract); err != nil {
		return types.Pool{}, nil, err
	} else if found {
		return types.Pool{}, nil, errorsmod.Wrap(types.ErrValidatorContractInUse, msg.ValidatorContract)
	}

	if found, err := k.PoolsByRewardContract.Has(ctx, msg.RewardContract); err != nil {
		return types.Pool{}, nil, err
	} else if found {
		return types.Pool{}, nil, errorsmod.Wrap(types.ErrRewardContractInUse, msg.RewardContract)
	}

	poolID, err := k.NextPoolID.Next(ctx)
	if err != nil {
		return types.Pool{}, nil, err
	}

	pool := types.NewPool(
		poolID, msg.Name,
		msg.ValidatorContract, msg.RewardContract, msg.ProtocolFeeContract,
		msg.ProtocolFeePercent,
	)

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	batch := types.NewUndelegationBatch(poolID, pool.CurrentUndelegationBatchID, sdkCtx.BlockTime(), pool.SlashingPointer)
	if err := k.SetUndelegationBatch(ctx, batch); err != nil {
		return types.Pool{}, nil, err
	}

	if err := k.PoolsByValidatorContract.Set(ctx, pool.ValidatorContract, poolID); err != nil {
		return types.Pool{}, nil, err
	}
	if err := k.PoolsByRewardContract.Set(ctx, pool.RewardContract, poolID); err != nil {
		return types.Pool{}, nil, err
	}
	if err := k.SetPool(ctx, pool); err != nil {
		return types.Pool{}, nil, err
	}

	k.Logger(ctx).Info("pool added", "pool_id", poolID, "name", pool.Name)

	return pool, []types.Instruction{
		types.SetRewardWithdrawAddressInstruction{
			Contract:       pool.ValidatorContract,
			RewardContract: pool.RewardContract,
		},
	}, nil
}

// AddValidator associates a validator with a pool. The pool does not need
// to be active.
func (k Keeper) AddValidator(ctx context.Context, msg *types.MsgAddValidator) ([]types.Instruction, error) {
	pool, err := k.GetPool(ctx, msg.PoolID)
	if err != nil {
		return nil, err
	}

	discoverable, err := k.validatorQuerier.Discoverable(ctx, msg.Validator)
	if err != nil {
		return nil, err
	} else if !discoverable {
		return nil, errorsmod.Wrap(types.ErrValidatorNotDiscoverable, msg.Validator)
	}

	if poolID, err := k.ValidatorPoolIndex.Get(ctx, msg.Validator); err == nil {
		return nil, errorsmod.Wrapf(types.ErrValidatorAssociatedToPool, "%s is in pool %d", msg.Validator, poolID)
	} else if !errors.Is(err, collections.ErrNotFound) {
		return nil, err
	}

	pool.Validators = append(pool.Validators, msg.Validator)
	if err := k.SetValidatorMeta(ctx, msg.Validator, pool.ID, types.NewValidatorMeta()); err != nil {
		return nil, err
	}
	if err := k.ValidatorPoolIndex.Set(ctx, msg.Validator, pool.ID); err != nil {
		return nil, err
	}
	if err := k.SetPool(ctx, pool); err != nil {
		return nil, err
	}

	return []types.Instruction{
		types.AddValidatorInstruction{
			Contract:  pool.ValidatorContract,
			Validator: msg.Validator,
		},
	}, nil
}

// getPoolForValidatorMove loads the pool and checks that both validators of
// a move belong to it.
func (k Keeper) getPoolForValidatorMove(ctx context.Context, poolID uint64, src, dst string) (types.Pool, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return types.Pool{}, err
	}

	for _, val := range []string{src, dst} {
		if !pool.HasValidator(val) {
			return types.Pool{}, errorsmod.Wrapf(types.ErrValidatorNotAdded, "%s in pool %d", val, poolID)
		}
	}

	return pool, nil
}

// RemoveValidator drops a validator from its pool, handing its tracked
// stake to RedelegateTo.
func (k Keeper) RemoveValidator(ctx context.Context, msg *types.MsgRemoveValidator) ([]types.Instruction, error) {
	pool, err := k.getPoolForValidatorMove(ctx, msg.PoolID, msg.Validator, msg.RedelegateTo)
	if err != nil {
		return nil, err
	}

	if _, err := k.ReconcileSlashing(ctx, &pool); err != nil {
		return nil, err
	}

	src, err := k.GetValidatorMeta(ctx, msg.Validator, pool.ID)
	if err != nil {
		return nil, err
	}
	dst, err := k.GetValidatorMeta(ctx, msg.RedelegateTo, pool.ID)
	if err != nil {
		return nil, err
	}

	dst.Staked = dst.Staked.Add(src.Staked)
	if err := k.SetValidatorMeta(ctx, msg.RedelegateTo, pool.ID, dst); err != nil {
		return nil, err
	}
	if err := k.ValidatorMetas.Remove(ctx, collections.Join(msg.Validator, pool.ID)); err != nil {
		return nil, err
	}
	if err := k.ValidatorPoolIndex.Remove(ctx, msg.Validator); err != nil {
		return nil, err
	}

	pool.RemoveValidator(msg.Validator)
	if err := k.SetPool(ctx, pool); err != nil {
		return nil, err
	}

	return []types.Instruction{
		types.RemoveValidatorInstruction{
			Contract:     pool.ValidatorContract,
			Validator:    msg.Validator,
			RedelegateTo: msg.RedelegateTo,
		},
	}, nil
}

// RebalancePool moves tracked stake between two validators of a pool.
func (k Keeper) RebalancePool(ctx context.Context, msg *types.MsgRebalancePool) ([]types.Instruction, error) {
	pool, err := k.getPoolForValidatorMove(ctx, msg.PoolID, msg.Validator, msg.RedelegateTo)
	if err != nil {
		return nil, err
	}

	if _, err := k.ReconcileSlashing(ctx, &pool); err != nil {
		return nil, err
	}

	src, err := k.GetValidatorMeta(ctx, msg.Validator, pool.ID)
	if err != nil {
		return nil, err
	}
	if src.Staked.LT(msg.Amount) {
		return nil, errorsmod.Wrapf(types.ErrInsufficientFunds, "%s has %s staked, %s requested", msg.Validator, src.Staked, msg.Amount)
	}

	dst, err := k.GetValidatorMeta(ctx, msg.RedelegateTo, pool.ID)
	if err != nil {
		return nil, err
	}

	src.Staked = src.Staked.Sub(msg.Amount)
	dst.Staked = dst.Staked.Add(msg.Amount)
	if err := k.SetValidatorMeta(ctx, msg.Validator, pool.ID, src); err != nil {
		return nil, err
	}
	if err := k.SetValidatorMeta(ctx, msg.RedelegateTo, pool.ID, dst); err != nil {
		return nil, err
	}
	if err := k.SetPool(ctx, pool); err != nil {
		return nil, err
	}

	return []types.Instruction{
		types.RedelegateInstruction{
			Contract:     pool.ValidatorContract,
			SrcValidator: msg.Validator,
			DstValidator: msg.RedelegateTo,
			Amount:       msg.Amount,
		},
	}, nil
}

// UpdatePoolMetadata applies the non-nil fields of msg to the pool.
func (k Keeper) UpdatePoolMetadata(ctx context.Context, msg *types.MsgUpdatePoolMetadata) (types.Pool, error) {
	pool, err := k.GetPool(ctx, msg.PoolID)
	if err != nil {
		return types.Pool{}, err
	}

	if msg.Active != nil {
		// a wiped out pool cannot take stake again
		if *msg.Active && !pool.SlashingPointer.IsPositive() {
			return types.Pool{}, errorsmod.Wrapf(types.ErrZeroStaked, "pool %d cannot be reactivated", pool.ID)
		}
		pool.Active = *msg.Active
	}

	if msg.RewardContract != nil && *msg.RewardContract != pool.RewardContract {
		if found, err := k.PoolsByRewardContract.Has(ctx, *msg.RewardContract); err != nil {
			return types.Pool{}, err
		} else if found {
			return types.Pool{}, errorsmod.Wrap(types.ErrRewardContractInUse, *msg.RewardContract)
		}

		if err := k.PoolsByRewardContract.Remove(ctx, pool.RewardContract); err != nil {
			return types.Pool{}, err
		}
		if err := k.PoolsByRewardContract.Set(ctx, *msg.RewardContract, pool.ID); err != nil {
			return types.Pool{}, err
		}
		pool.RewardContract = *msg.RewardContract
	}

	if msg.ProtocolFeeContract != nil {
		pool.ProtocolFeeContract = *msg.ProtocolFeeContract
	}

	if msg.ProtocolFeePercent != nil {
		pool.ProtocolFeePercent = *msg.ProtocolFeePercent
	}

	return pool, k.SetPool(ctx, pool)
}
