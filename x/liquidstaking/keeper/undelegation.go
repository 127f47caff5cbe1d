package keeper

import (
	"context"
	"errors"
	"time"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/initia-labs/liquidstaking/x/liquidstaking/types"
)

// GetUndelegationBatch returns a batch of a pool.
func (k Keeper) GetUndelegationBatch(ctx context.Context, poolID, batchID uint64) (types.UndelegationBatch, error) {
	batch, err := k.UndelegationBatches.Get(ctx, collections.Join(poolID, batchID))
	if errors.Is(err, collections.ErrNotFound) {
		return types.UndelegationBatch{}, errorsmod.Wrapf(types.ErrUndelegationBatchNotFound, "pool %d batch %d", poolID, batchID)
	}

	return batch, err
}

// SetUndelegationBatch stores a batch.
func (k Keeper) SetUndelegationBatch(ctx context.Context, batch types.UndelegationBatch) error {
	return k.UndelegationBatches.Set(ctx, collections.Join(batch.PoolID, batch.ID), batch)
}

// QueueUndelegate adds amount to the open batch of the pool. The
// notification carries the pointers seen before slashing was reconciled, so
// the delegator contract settles the user at the pointer they held.
func (k Keeper) QueueUndelegate(ctx context.Context, user string, poolID uint64, amount math.Int) ([]types.Instruction, error) {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return nil, err
	}

	snapshot := pool.Snapshot()
	if !snapshot.SlashingPointer.IsPositive() {
		return nil, errorsmod.Wrapf(types.ErrZeroStaked, "pool %d", poolID)
	}

	if _, err := k.ReconcileSlashing(ctx, &pool); err != nil {
		return nil, err
	}

	batch, err := k.GetUndelegationBatch(ctx, pool.ID, pool.CurrentUndelegationBatchID)
	if err != nil {
		return nil, err
	}

	prorated := math.LegacyNewDecFromInt(amount).Mul(pool.SlashingPointer).Quo(snapshot.SlashingPointer)
	batch.ProratedAmount = batch.ProratedAmount.Add(prorated)
	if err := k.SetUndelegationBatch(ctx, batch); err != nil {
		return nil, err
	}

	return []types.Instruction{
		types.UndelegateNotification{
			Contract: config.DelegatorContract,
			User:     user,
			PoolID:   pool.ID,
			BatchID:  batch.ID,
			Amount:   amount,
			Pointers: snapshot,
		},
	}, nil
}

// Undelegate closes the open batch of the pool, unbonding its prorated
// amount from the pool's validators, and opens the next batch. It returns
// the undelegated amount.
func (k Keeper) Undelegate(ctx context.Context, poolID uint64) (math.Int, []types.Instruction, error) {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return math.Int{}, nil, err
	}

	pool, err := k.ReconcilePool(ctx, poolID)
	if err != nil {
		return math.Int{}, nil, err
	}

	batch, err := k.GetUndelegationBatch(ctx, pool.ID, pool.CurrentUndelegationBatchID)
	if err != nil {
		return math.Int{}, nil, err
	}

	if batch.ProratedAmount.IsZero() {
		return math.Int{}, nil, errorsmod.Wrapf(types.ErrNoOp, "batch %d of pool %d is empty", batch.ID, pool.ID)
	}

	target := batch.ProratedAmount.TruncateInt()
	sources, err := k.SelectUndelegationSources(ctx, pool, target)
	if err != nil {
		return math.Int{}, nil, err
	}

	instructions := make([]types.Instruction, 0, len(sources))
	for _, source := range sources {
		meta, err := k.GetValidatorMeta(ctx, source.Validator, pool.ID)
		if err != nil {
			return math.Int{}, nil, err
		}

		meta.Staked = meta.Staked.Sub(source.Amount)
		if err := k.SetValidatorMeta(ctx, source.Validator, pool.ID, meta); err != nil {
			return math.Int{}, nil, err
		}

		instructions = append(instructions, types.UndelegateInstruction{
			Contract:  pool.ValidatorContract,
			Validator: source.Validator,
			Amount:    source.Amount,
		})
	}

	now := sdk.UnwrapSDKContext(ctx).BlockTime()
	batch.Close(target, now.Add(time.Duration(config.UnbondingPeriod)*time.Second))
	if err := k.SetUndelegationBatch(ctx, batch); err != nil {
		return math.Int{}, nil, err
	}

	pool.Staked = pool.Staked.Sub(target)
	pool.CurrentUndelegationBatchID++
	next := types.NewUndelegationBatch(pool.ID, pool.CurrentUndelegationBatchID, now, pool.SlashingPointer)
	if err := k.SetUndelegationBatch(ctx, next); err != nil {
		return math.Int{}, nil, err
	}

	if err := k.SetPool(ctx, pool); err != nil {
		return math.Int{}, nil, err
	}

	k.Logger(ctx).Info("undelegation batch closed",
		"pool_id", pool.ID,
		"batch_id", batch.ID,
		"amount", target.String(),
		"release_time", batch.EstReleaseTime.String(),
	)

	return target, instructions, nil
}

// ReconcileFunds settles the due batches of the pool that follow the last
// reconciled one, up to the configured page size. The funds released by the
// chain are compared to what the batches expect and any shortfall is
// recorded as the batches' unbonding slashing ratio.
//
// It returns the range of batches settled, which is empty when no batch was
// due. Due batches are left untouched when the chain has released nothing.
func (k Keeper) ReconcileFunds(ctx context.Context, poolID uint64) (from, to uint64, instructions []types.Instruction, err error) {
	defer telemetry.ModuleMeasureSince(types.ModuleName, time.Now(), "reconcile_funds")

	config, err := k.GetConfig(ctx)
	if err != nil {
		return 0, 0, nil, err
	}

	pool, err := k.ReconcilePool(ctx, poolID)
	if err != nil {
		return 0, 0, nil, err
	}

	now := sdk.UnwrapSDKContext(ctx).BlockTime()
	expected := math.ZeroInt()
	batches := []types.UndelegationBatch{}
	for id := pool.LastReconciledBatchID + 1; id < pool.CurrentUndelegationBatchID; id++ {
		if uint64(len(batches)) >= config.ReconcileBatchLimit {
			break
		}

		batch, err := k.GetUndelegationBatch(ctx, pool.ID, id)
		if err != nil {
			return 0, 0, nil, err
		}

		if !batch.IsDue(now) {
			break
		}

		expected = expected.Add(batch.UndelegatedAmount)
		batches = append(batches, batch)
	}

	if len(batches) == 0 {
		return 0, 0, nil, nil
	}

	ratio := math.LegacyOneDec()
	actual := math.ZeroInt()
	if expected.IsPositive() {
		actual, err = k.validatorQuerier.UnaccountedBaseFunds(ctx, pool.ValidatorContract)
		if err != nil {
			return 0, 0, nil, err
		}

		// released funds have not landed yet; the batches stay open for a later call
		if !actual.IsPositive() {
			return 0, 0, nil, errorsmod.Wrapf(types.ErrZeroAmount,
				"no funds released for batches %d..%d of pool %d", batches[0].ID, batches[len(batches)-1].ID, pool.ID)
		}

		ratio = math.LegacyMinDec(math.LegacyOneDec(), math.LegacyNewDecFromInt(actual).QuoInt(expected))
	}

	for _, batch := range batches {
		batch.Reconcile(ratio)
		if err := k.SetUndelegationBatch(ctx, batch); err != nil {
			return 0, 0, nil, err
		}
	}

	from, to = batches[0].ID, batches[len(batches)-1].ID
	pool.LastReconciledBatchID = to
	if err := k.SetPool(ctx, pool); err != nil {
		return 0, 0, nil, err
	}

	k.Logger(ctx).Info("undelegation batches reconciled",
		"pool_id", pool.ID,
		"from_batch_id", from,
		"to_batch_id", to,
		"expected", expected.String(),
		"actual", actual.String(),
		"ratio", ratio.String(),
	)

	if !expected.IsPositive() {
		return from, to, nil, nil
	}

	return from, to, []types.Instruction{
		types.TransferReconciledFundsInstruction{
			Contract: pool.ValidatorContract,
			Amount:   actual,
		},
	}, nil
}

// WithdrawFundsToWallet releases a user's share of a reconciled batch through
// the delegator contract.
func (k Keeper) WithdrawFundsToWallet(ctx context.Context, user string, msg *types.MsgWithdrawFundsToWallet) ([]types.Instruction, error) {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	batch, err := k.GetUndelegationBatch(ctx, msg.PoolID, msg.BatchID)
	if err != nil {
		return nil, err
	}

	if !batch.Reconciled {
		return nil, errorsmod.Wrapf(types.ErrUndelegationBatchNotReconciled, "pool %d batch %d", msg.PoolID, msg.BatchID)
	}

	return []types.Instruction{
		types.WithdrawNotification{
			Contract:               config.DelegatorContract,
			User:                   user,
			PoolID:                 msg.PoolID,
			BatchID:                msg.BatchID,
			UndelegateID:           msg.UndelegateID,
			BatchSlashingPointer:   batch.LastUpdatedSlashingPointer,
			UnbondingSlashingRatio: batch.UnbondingSlashingRatio,
		},
	}, nil
}
