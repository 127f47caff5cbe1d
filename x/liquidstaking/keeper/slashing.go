package keeper

import (
	"context"
	"strconv"
	"time"

	"cosmossdk.io/math"
	"github.com/hashicorp/go-metrics"

	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/initia-labs/liquidstaking/x/liquidstaking/types"
)

// ReconcileSlashing compares the tracked stake of every validator in the pool
// against the chain and absorbs any loss into the pool's slashing pointer and
// its open undelegation batch.
//
// The pool is updated in place and persisted. It returns true if a loss was
// found. Calling it twice without an intervening slash is a no-op.
func (k Keeper) ReconcileSlashing(ctx context.Context, pool *types.Pool) (bool, error) {
	defer telemetry.ModuleMeasureSince(types.ModuleName, time.Now(), "reconcile_slashing")

	total := math.ZeroInt()
	for _, val := range pool.Validators {
		meta, err := k.GetValidatorMeta(ctx, val, pool.ID)
		if err != nil {
			return false, err
		}

		onChain, found, err := k.validatorQuerier.Delegation(ctx, pool.ValidatorContract, val)
		if err != nil {
			return false, err
		} else if !found {
			onChain = math.ZeroInt()
		}

		if !onChain.LT(meta.Staked) {
			continue
		}

		delta := meta.Staked.Sub(onChain)
		meta.Slashed = meta.Slashed.Add(delta)
		meta.Staked = onChain
		if err := k.SetValidatorMeta(ctx, val, pool.ID, meta); err != nil {
			return false, err
		}

		total = total.Add(delta)

		if delta.IsInt64() {
			telemetry.IncrCounterWithLabels(
				[]string{types.ModuleName, "slashed"},
				float32(delta.Int64()),
				[]metrics.Label{telemetry.NewLabel("validator", val)},
			)
		}
	}

	if !total.IsPositive() {
		return false, nil
	}

	newStaked := pool.Staked.Sub(total)
	if newStaked.IsNegative() {
		newStaked = math.ZeroInt()
	}

	ratio := pool.ApplySlashing(newStaked)

	batch, err := k.GetUndelegationBatch(ctx, pool.ID, pool.CurrentUndelegationBatchID)
	if err != nil {
		return false, err
	}
	batch.Prorate(ratio, pool.SlashingPointer)
	if err := k.SetUndelegationBatch(ctx, batch); err != nil {
		return false, err
	}

	logger := k.Logger(ctx)
	if newStaked.IsZero() {
		pool.Active = false
		logger.Error("pool lost its whole stake, deactivating", "pool_id", pool.ID, "slashed", total.String())
	} else {
		logger.Info("slashing absorbed", "pool_id", pool.ID, "slashed", total.String(), "slashing_pointer", pool.SlashingPointer.String())
	}

	if err := k.SetPool(ctx, *pool); err != nil {
		return false, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSlashing,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(pool.ID, 10)),
			sdk.NewAttribute(types.AttributeKeySlashed, total.String()),
			sdk.NewAttribute(types.AttributeKeySlashingPointer, pool.SlashingPointer.String()),
		),
	)

	return true, nil
}

// ReconcilePool loads a pool and runs ReconcileSlashing against it.
func (k Keeper) ReconcilePool(ctx context.Context, poolID uint64) (types.Pool, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return types.Pool{}, err
	}

	if _, err := k.ReconcileSlashing(ctx, &pool); err != nil {
		return types.Pool{}, err
	}

	return pool, nil
}
