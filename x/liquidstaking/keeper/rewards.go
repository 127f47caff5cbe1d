package keeper

import (
	"context"
	"slices"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	"github.com/initia-labs/liquidstaking/x/liquidstaking/types"
)

// RedeemRewards asks each pool's validator contract to withdraw the rewards
// accrued by its validators.
func (k Keeper) RedeemRewards(ctx context.Context, poolIDs []uint64) ([]types.Instruction, error) {
	instructions := make([]types.Instruction, 0, len(poolIDs))
	for _, poolID := range poolIDs {
		pool, err := k.GetPool(ctx, poolID)
		if err != nil {
			return nil, err
		}

		instructions = append(instructions, types.RedeemRewardsInstruction{
			Contract:   pool.ValidatorContract,
			Validators: slices.Clone(pool.Validators),
		})
	}

	return instructions, nil
}

// Swap asks each pool's reward contract to convert its holdings into the
// vault denom.
func (k Keeper) Swap(ctx context.Context, poolIDs []uint64) ([]types.Instruction, error) {
	instructions := make([]types.Instruction, 0, len(poolIDs))
	for _, poolID := range poolIDs {
		pool, err := k.GetPool(ctx, poolID)
		if err != nil {
			return nil, err
		}

		instructions = append(instructions, types.SwapInstruction{Contract: pool.RewardContract})
	}

	return instructions, nil
}

// SendRewardsToScc forwards each pool's reward balance to the rewards sink,
// keeping the protocol fee aside.
func (k Keeper) SendRewardsToScc(ctx context.Context, poolIDs []uint64) ([]types.Instruction, error) {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	instructions := make([]types.Instruction, 0, len(poolIDs))
	for _, poolID := range poolIDs {
		pool, err := k.GetPool(ctx, poolID)
		if err != nil {
			return nil, err
		}

		balance, err := k.balanceQuerier.Balance(ctx, pool.RewardContract, config.VaultDenom)
		if err != nil {
			return nil, err
		}

		if !balance.IsPositive() {
			return nil, errorsmod.Wrapf(types.ErrZeroRewards, "pool %d", pool.ID)
		}

		fee, reward := pool.ProtocolFee(balance)
		instructions = append(instructions, types.TransferRewardsInstruction{
			Contract:             pool.RewardContract,
			RewardAmount:         reward,
			RewardRecipient:      config.SccContract,
			ProtocolFeeAmount:    fee,
			ProtocolFeeRecipient: pool.ProtocolFeeContract,
		})
	}

	return instructions, nil
}

// UpdateRewardsPointer attributes amount of swapped rewards to the stakers of
// the pool.
func (k Keeper) UpdateRewardsPointer(ctx context.Context, poolID uint64, amount math.Int) (types.Pool, error) {
	pool, err := k.ReconcilePool(ctx, poolID)
	if err != nil {
		return types.Pool{}, err
	}

	if err := pool.AccrueRewards(amount); err != nil {
		return types.Pool{}, errorsmod.Wrapf(err, "pool %d", poolID)
	}

	return pool, k.SetPool(ctx, pool)
}
