package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cosmossdk.io/math"

	"github.com/initia-labs/liquidstaking/x/liquidstaking/types"
)

func Test_RedeemRewards(t *testing.T) {
	in := createTestInput(t)
	x := in.createPool(t, "x", "val1", "val2")
	y := in.createPool(t, "y", "val3")

	instructions := in.manager(t, &types.MsgRedeemRewards{PoolIDs: []uint64{y.ID, x.ID}})
	requireInstructions(t, []types.Instruction{
		types.RedeemRewardsInstruction{Contract: "y_validators", Validators: []string{"val3"}},
		types.RedeemRewardsInstruction{Contract: "x_validators", Validators: []string{"val1", "val2"}},
	}, instructions)

	_, err := in.execute(managerAddr, nil, &types.MsgRedeemRewards{PoolIDs: []uint64{x.ID, 9}})
	require.ErrorIs(t, err, types.ErrPoolNotFound)
}

func Test_Swap(t *testing.T) {
	in := createTestInput(t)
	x := in.createPool(t, "x")

	instructions := in.manager(t, &types.MsgSwap{PoolIDs: []uint64{x.ID}})
	requireInstructions(t, []types.Instruction{
		types.SwapInstruction{Contract: "x_rewards"},
	}, instructions)
}

func Test_SendRewardsToScc(t *testing.T) {
	in := createTestInput(t)
	x := in.createPool(t, "x")

	_, err := in.execute(managerAddr, nil, &types.MsgSendRewardsToScc{PoolIDs: []uint64{x.ID}})
	require.ErrorIs(t, err, types.ErrZeroRewards)

	in.bq.balances["x_rewards/"+vaultDenom] = math.NewInt(1005)
	instructions := in.manager(t, &types.MsgSendRewardsToScc{PoolIDs: []uint64{x.ID}})

	// 10% of 1005, floored
	requireInstructions(t, []types.Instruction{
		types.TransferRewardsInstruction{
			Contract:             "x_rewards",
			RewardAmount:         math.NewInt(905),
			RewardRecipient:      sccAddr,
			ProtocolFeeAmount:    math.NewInt(100),
			ProtocolFeeRecipient: "fee_collector",
		},
	}, instructions)

	// pointers do not move until the rewards are attributed
	require.True(t, in.pool(t, x.ID).RewardsPointer.IsZero())
}

func Test_UpdateRewardsPointer(t *testing.T) {
	in := createTestInput(t)
	x := in.createPool(t, "x", "val1")

	_, err := in.execute(managerAddr, nil, &types.MsgUpdateRewardsPointer{PoolID: x.ID, Amount: math.NewInt(10)})
	require.ErrorIs(t, err, types.ErrZeroStaked)

	in.setStake(t, x.ID, map[string]int64{"val1": 400})
	in.manager(t, &types.MsgUpdateRewardsPointer{PoolID: x.ID, Amount: math.NewInt(100)})
	requireDec(t, "0.25", in.pool(t, x.ID).RewardsPointer)

	in.manager(t, &types.MsgUpdateRewardsPointer{PoolID: x.ID, Amount: math.NewInt(40)})
	requireDec(t, "0.35", in.pool(t, x.ID).RewardsPointer)

	_, err = in.execute(managerAddr, nil, &types.MsgUpdateRewardsPointer{PoolID: x.ID, Amount: math.ZeroInt()})
	require.ErrorIs(t, err, types.ErrZeroAmount)
}
