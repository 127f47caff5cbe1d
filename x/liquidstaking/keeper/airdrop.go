package keeper

import (
	"context"
	"errors"
	"slices"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"

	"github.com/initia-labs/liquidstaking/x/liquidstaking/types"
)

// GetAirdropInfo returns the registry entry of an airdrop denom. The lookup
// is case insensitive.
func (k Keeper) GetAirdropInfo(ctx context.Context, denom string) (types.AirdropRegistryInfo, error) {
	info, err := k.AirdropRegistry.Get(ctx, types.AirdropDenom(denom))
	if errors.Is(err, collections.ErrNotFound) {
		return types.AirdropRegistryInfo{}, errorsmod.Wrap(types.ErrAirdropNotRegistered, denom)
	}

	return info, err
}

// UpdateAirdropRegistry sets the contracts serving an airdrop denom.
func (k Keeper) UpdateAirdropRegistry(ctx context.Context, msg *types.MsgUpdateAirdropRegistry) error {
	return k.AirdropRegistry.Set(ctx, types.AirdropDenom(msg.Denom), types.AirdropRegistryInfo{
		AirdropContract: msg.AirdropContract,
		TokenContract:   msg.TokenContract,
	})
}

// ClaimAirdrops claims each airdrop into the validator contract of its pool.
// Pointers move only once the claimed tokens are pulled by
// UpdateAirdropPointers.
func (k Keeper) ClaimAirdrops(ctx context.Context, rates []types.AirdropRate) ([]types.Instruction, error) {
	instructions := make([]types.Instruction, 0, len(rates))
	for _, rate := range rates {
		info, err := k.GetAirdropInfo(ctx, rate.Denom)
		if err != nil {
			return nil, err
		}

		pool, err := k.GetPool(ctx, rate.PoolID)
		if err != nil {
			return nil, err
		}

		instructions = append(instructions, types.ClaimAirdropInstruction{
			Contract:        pool.ValidatorContract,
			AirdropContract: info.AirdropContract,
			Amount:          rate.Amount,
			Claim: types.MerkleClaim{
				Stage:  rate.Stage,
				Amount: rate.Amount,
				Proof:  slices.Clone(rate.Proof),
			},
		})
	}

	return instructions, nil
}

// UpdateAirdropPointers moves the staged airdrop balance of each pool out of
// its validator contract and credits it to the pool's airdrop pointer.
func (k Keeper) UpdateAirdropPointers(ctx context.Context, transfers []types.AirdropTransferRequest) ([]types.Instruction, error) {
	instructions := make([]types.Instruction, 0, len(transfers))
	for _, transfer := range transfers {
		pool, err := k.ReconcilePool(ctx, transfer.PoolID)
		if err != nil {
			return nil, err
		}

		info, err := k.GetAirdropInfo(ctx, transfer.Denom)
		if err != nil {
			return nil, err
		}

		amount, err := k.balanceQuerier.TokenBalance(ctx, info.TokenContract, pool.ValidatorContract)
		if err != nil {
			return nil, err
		}

		if !amount.IsPositive() {
			return nil, errorsmod.Wrapf(types.ErrZeroAmount, "no %s staged for pool %d", transfer.Denom, pool.ID)
		}

		if err := pool.AccrueAirdrop(types.AirdropDenom(transfer.Denom), amount); err != nil {
			return nil, errorsmod.Wrapf(err, "pool %d", pool.ID)
		}

		if err := k.SetPool(ctx, pool); err != nil {
			return nil, err
		}

		instructions = append(instructions, types.TransferAirdropInstruction{
			Contract:      pool.ValidatorContract,
			TokenContract: info.TokenContract,
			Amount:        amount,
		})
	}

	return instructions, nil
}
