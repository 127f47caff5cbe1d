package keeper_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/initia-labs/liquidstaking/x/liquidstaking/types"
)

func Test_QueueUndelegate(t *testing.T) {
	in := createTestInput(t)
	pool := in.createPool(t, "x", "val1", "val2", "val3")
	pool = in.setStake(t, pool.ID, map[string]int64{"val1": 150, "val2": 150, "val3": 150})

	batch := in.batch(t, pool.ID, 1)
	batch.ProratedAmount = dec("40")
	require.NoError(t, in.k.SetUndelegationBatch(in.ctx, batch))

	// queueing works on inactive pools
	inactive := false
	in.manager(t, &types.MsgUpdatePoolMetadata{PoolID: pool.ID, Active: &inactive})

	in.vq.setDelegation(pool.ValidatorContract, "val3", 105)
	instructions, err := in.execute(userAddr, nil, &types.MsgQueueUndelegate{PoolID: pool.ID, Amount: math.NewInt(20)})
	require.NoError(t, err)

	// the notification carries the pointers from before the slash
	requireInstructions(t, []types.Instruction{
		types.UndelegateNotification{
			Contract: delegatorAddr,
			User:     userAddr,
			PoolID:   pool.ID,
			BatchID:  1,
			Amount:   math.NewInt(20),
			Pointers: types.PointerSnapshot{
				RewardsPointer:  math.LegacyZeroDec(),
				AirdropsPointer: sdk.DecCoins{},
				SlashingPointer: math.LegacyOneDec(),
			},
		},
	}, instructions)

	pool = in.pool(t, pool.ID)
	requireInt(t, 405, pool.Staked)
	requireDec(t, "0.9", pool.SlashingPointer)
	requireDec(t, "54", in.batch(t, pool.ID, 1).ProratedAmount)
	requireInvariants(t, in)

	_, err = in.execute(userAddr, nil, &types.MsgQueueUndelegate{PoolID: 9, Amount: math.NewInt(20)})
	require.ErrorIs(t, err, types.ErrPoolNotFound)
}

func Test_Undelegate(t *testing.T) {
	in := createTestInput(t)
	pool := in.createPool(t, "x", "val1", "val2", "val3")
	pool = in.setStake(t, pool.ID, map[string]int64{"val1": 1000, "val2": 960, "val3": 0})

	batch := in.batch(t, pool.ID, 1)
	batch.ProratedAmount = dec("1200.4")
	require.NoError(t, in.k.SetUndelegationBatch(in.ctx, batch))

	in.ctx = in.ctx.WithEventManager(sdk.NewEventManager())
	instructions := in.manager(t, &types.MsgUndelegate{PoolID: pool.ID})
	requireInstructions(t, []types.Instruction{
		types.UndelegateInstruction{Contract: "x_validators", Validator: "val1", Amount: math.NewInt(1000)},
		types.UndelegateInstruction{Contract: "x_validators", Validator: "val2", Amount: math.NewInt(200)},
	}, instructions)

	pool = in.pool(t, pool.ID)
	requireInt(t, 760, pool.Staked)
	require.Equal(t, uint64(2), pool.CurrentUndelegationBatchID)
	requireInt(t, 0, in.meta(t, "val1", pool.ID).Staked)
	requireInt(t, 760, in.meta(t, "val2", pool.ID).Staked)

	closed := in.batch(t, pool.ID, 1)
	requireInt(t, 1200, closed.UndelegatedAmount)
	require.NotNil(t, closed.EstReleaseTime)
	require.True(t, genesisTime.Add(21*24*time.Hour).Equal(*closed.EstReleaseTime))
	require.False(t, closed.Reconciled)

	open := in.batch(t, pool.ID, 2)
	require.True(t, open.ProratedAmount.IsZero())
	require.False(t, open.IsClosed())
	requireDec(t, "1", open.LastUpdatedSlashingPointer)
	requireDec(t, "1", open.UnbondingSlashingRatio)

	var attrs map[string]string
	for _, event := range in.ctx.EventManager().Events() {
		if event.Type != types.EventTypeUndelegation {
			continue
		}

		attrs = make(map[string]string)
		for _, attr := range event.Attributes {
			attrs[attr.Key] = attr.Value
		}
	}
	require.Equal(t, "0", attrs[types.AttributeKeyPoolID])
	require.Equal(t, "1200", attrs[sdk.AttributeKeyAmount])

	requireInvariants(t, in)

	// the new batch is empty
	_, err := in.execute(managerAddr, nil, &types.MsgUndelegate{PoolID: pool.ID})
	require.ErrorIs(t, err, types.ErrNoOp)
}

func Test_Undelegate_ReverseOrderTie(t *testing.T) {
	in := createTestInput(t)
	pool := in.createPool(t, "x", "val1", "val2", "val3")
	pool = in.setStake(t, pool.ID, map[string]int64{"val1": 1000, "val2": 1000, "val3": 0})

	batch := in.batch(t, pool.ID, 1)
	batch.ProratedAmount = dec("40.3")
	require.NoError(t, in.k.SetUndelegationBatch(in.ctx, batch))

	instructions := in.manager(t, &types.MsgUndelegate{PoolID: pool.ID})
	requireInstructions(t, []types.Instruction{
		types.UndelegateInstruction{Contract: "x_validators", Validator: "val2", Amount: math.NewInt(40)},
	}, instructions)
	requireInt(t, 1960, in.pool(t, pool.ID).Staked)
}

func Test_Undelegate_InsufficientFunds(t *testing.T) {
	in := createTestInput(t)
	pool := in.createPool(t, "x", "val1")
	pool = in.setStake(t, pool.ID, map[string]int64{"val1": 100})

	batch := in.batch(t, pool.ID, 1)
	batch.ProratedAmount = dec("101")
	require.NoError(t, in.k.SetUndelegationBatch(in.ctx, batch))

	_, err := in.execute(managerAddr, nil, &types.MsgUndelegate{PoolID: pool.ID})
	require.ErrorIs(t, err, types.ErrInsufficientFunds)
	require.Equal(t, uint64(1), in.pool(t, pool.ID).CurrentUndelegationBatchID)
}

// closeBatches stores closed batches with the given undelegated amounts and
// release times, leaving the batch after them open.
func closeBatches(t *testing.T, in testInput, poolID uint64, amounts []int64, releases []time.Time) {
	pool := in.pool(t, poolID)
	for i, amount := range amounts {
		batch := types.NewUndelegationBatch(poolID, uint64(i+1), genesisTime, pool.SlashingPointer)
		batch.Close(math.NewInt(amount), releases[i])
		require.NoError(t, in.k.SetUndelegationBatch(in.ctx, batch))
	}

	pool.CurrentUndelegationBatchID = uint64(len(amounts) + 1)
	require.NoError(t, in.k.SetPool(in.ctx, pool))
	require.NoError(t, in.k.SetUndelegationBatch(in.ctx,
		types.NewUndelegationBatch(poolID, pool.CurrentUndelegationBatchID, genesisTime, pool.SlashingPointer)))
}

func Test_ReconcileFunds(t *testing.T) {
	in := createTestInput(t)
	pool := in.createPool(t, "x", "val1")

	past := genesisTime.Add(-time.Hour)
	future := genesisTime.Add(time.Hour)
	closeBatches(t, in, pool.ID, []int64{20, 70, 50}, []time.Time{past, genesisTime, future})

	in.vq.unaccounted[pool.ValidatorContract] = math.NewInt(81)
	instructions := in.manager(t, &types.MsgReconcileFunds{PoolID: pool.ID})
	requireInstructions(t, []types.Instruction{
		types.TransferReconciledFundsInstruction{Contract: "x_validators", Amount: math.NewInt(81)},
	}, instructions)

	for _, id := range []uint64{1, 2} {
		batch := in.batch(t, pool.ID, id)
		require.True(t, batch.Reconciled)
		requireDec(t, "0.9", batch.UnbondingSlashingRatio)
	}

	undue := in.batch(t, pool.ID, 3)
	require.False(t, undue.Reconciled)
	requireDec(t, "1", undue.UnbondingSlashingRatio)

	require.Equal(t, uint64(2), in.pool(t, pool.ID).LastReconciledBatchID)
	requireInvariants(t, in)

	// nothing else is due yet
	instructions = in.manager(t, &types.MsgReconcileFunds{PoolID: pool.ID})
	require.Empty(t, instructions)
	require.Equal(t, uint64(2), in.pool(t, pool.ID).LastReconciledBatchID)
}

func Test_ReconcileFunds_Surplus(t *testing.T) {
	in := createTestInput(t)
	pool := in.createPool(t, "x", "val1")
	closeBatches(t, in, pool.ID, []int64{100}, []time.Time{genesisTime})

	in.vq.unaccounted[pool.ValidatorContract] = math.NewInt(120)
	in.manager(t, &types.MsgReconcileFunds{PoolID: pool.ID})

	requireDec(t, "1", in.batch(t, pool.ID, 1).UnbondingSlashingRatio)
}

func Test_ReconcileFunds_BeforeFundsArrive(t *testing.T) {
	in := createTestInput(t)
	pool := in.createPool(t, "x", "val1")
	closeBatches(t, in, pool.ID, []int64{40, 60}, []time.Time{genesisTime, genesisTime})

	_, err := in.execute(managerAddr, nil, &types.MsgReconcileFunds{PoolID: pool.ID})
	require.ErrorIs(t, err, types.ErrZeroAmount)

	require.Equal(t, uint64(0), in.pool(t, pool.ID).LastReconciledBatchID)
	for _, id := range []uint64{1, 2} {
		batch := in.batch(t, pool.ID, id)
		require.False(t, batch.Reconciled)
		requireDec(t, "1", batch.UnbondingSlashingRatio)
	}

	// the operator retries once the chain releases the funds
	in.vq.unaccounted[pool.ValidatorContract] = math.NewInt(95)
	instructions := in.manager(t, &types.MsgReconcileFunds{PoolID: pool.ID})
	requireInstructions(t, []types.Instruction{
		types.TransferReconciledFundsInstruction{Contract: "x_validators", Amount: math.NewInt(95)},
	}, instructions)

	require.Equal(t, uint64(2), in.pool(t, pool.ID).LastReconciledBatchID)
	requireDec(t, "0.95", in.batch(t, pool.ID, 2).UnbondingSlashingRatio)
	requireInvariants(t, in)
}

func Test_ReconcileFunds_EmptyBatches(t *testing.T) {
	in := createTestInput(t)
	pool := in.createPool(t, "x", "val1")
	closeBatches(t, in, pool.ID, []int64{0, 0}, []time.Time{genesisTime, genesisTime})

	instructions := in.manager(t, &types.MsgReconcileFunds{PoolID: pool.ID})
	require.Empty(t, instructions)

	require.Equal(t, uint64(2), in.pool(t, pool.ID).LastReconciledBatchID)
	require.True(t, in.batch(t, pool.ID, 2).Reconciled)
}

func Test_ReconcileFunds_BatchLimit(t *testing.T) {
	in := createTestInput(t)
	pool := in.createPool(t, "x", "val1")
	closeBatches(t, in, pool.ID, []int64{10, 10, 10}, []time.Time{genesisTime, genesisTime, genesisTime})

	limit := uint64(2)
	in.manager(t, &types.MsgUpdateConfig{ReconcileBatchLimit: &limit})

	in.vq.unaccounted[pool.ValidatorContract] = math.NewInt(20)
	in.manager(t, &types.MsgReconcileFunds{PoolID: pool.ID})
	require.Equal(t, uint64(2), in.pool(t, pool.ID).LastReconciledBatchID)
	require.False(t, in.batch(t, pool.ID, 3).Reconciled)

	in.vq.unaccounted[pool.ValidatorContract] = math.NewInt(10)
	in.manager(t, &types.MsgReconcileFunds{PoolID: pool.ID})
	require.Equal(t, uint64(3), in.pool(t, pool.ID).LastReconciledBatchID)
}

func Test_WithdrawFundsToWallet(t *testing.T) {
	in := createTestInput(t)
	pool := in.createPool(t, "x", "val1")
	closeBatches(t, in, pool.ID, []int64{100}, []time.Time{genesisTime})

	withdraw := func(batchID uint64) ([]types.Instruction, error) {
		return in.execute(userAddr, nil, &types.MsgWithdrawFundsToWallet{PoolID: pool.ID, BatchID: batchID, UndelegateID: 7})
	}

	_, err := withdraw(9)
	require.ErrorIs(t, err, types.ErrUndelegationBatchNotFound)

	_, err = withdraw(1)
	require.ErrorIs(t, err, types.ErrUndelegationBatchNotReconciled)

	batch := in.batch(t, pool.ID, 1)
	batch.LastUpdatedSlashingPointer = dec("0.9")
	batch.Reconcile(dec("0.9"))
	require.NoError(t, in.k.SetUndelegationBatch(in.ctx, batch))

	instructions, err := withdraw(1)
	require.NoError(t, err)
	requireInstructions(t, []types.Instruction{
		types.WithdrawNotification{
			Contract:               delegatorAddr,
			User:                   userAddr,
			PoolID:                 pool.ID,
			BatchID:                1,
			UndelegateID:           7,
			BatchSlashingPointer:   dec("0.9"),
			UnbondingSlashingRatio: dec("0.9"),
		},
	}, instructions)

	// a user who queued 100 at pointer 1 receives 100 * 0.9 * 0.9
	payout, err := in.batch(t, pool.ID, 1).Payout(math.NewInt(100), math.LegacyOneDec())
	require.NoError(t, err)
	requireInt(t, 81, payout)
}

func Test_BatchLifecycle(t *testing.T) {
	in := createTestInput(t)
	pool := in.createPool(t, "x", "val1", "val2")
	in.setStake(t, pool.ID, map[string]int64{"val1": 500, "val2": 500})

	_, err := in.execute(userAddr, nil, &types.MsgQueueUndelegate{PoolID: pool.ID, Amount: math.NewInt(300)})
	require.NoError(t, err)

	in.manager(t, &types.MsgUndelegate{PoolID: pool.ID})
	in.vq.setDelegation(pool.ValidatorContract, "val2", 200)

	// not due before the unbonding period elapses
	in.manager(t, &types.MsgReconcileFunds{PoolID: pool.ID})
	require.Equal(t, uint64(0), in.pool(t, pool.ID).LastReconciledBatchID)

	in.ctx = in.ctx.WithBlockTime(genesisTime.Add(21 * 24 * time.Hour))
	in.vq.unaccounted[pool.ValidatorContract] = math.NewInt(300)
	in.manager(t, &types.MsgReconcileFunds{PoolID: pool.ID})
	require.Equal(t, uint64(1), in.pool(t, pool.ID).LastReconciledBatchID)

	_, err = in.execute(userAddr, nil, &types.MsgWithdrawFundsToWallet{PoolID: pool.ID, BatchID: 1})
	require.NoError(t, err)
	requireInvariants(t, in)
}
