package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/initia-labs/liquidstaking/x/liquidstaking/types"
)

// Deposit stakes coin on behalf of user with the least delegated
// validator of the pool. The coin is expected to be in the vault denom.
func (k Keeper) Deposit(ctx context.Context, user string, poolID uint64, coin sdk.Coin) ([]types.Instruction, error) {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	if coin.Amount.GT(config.MaxDeposit) {
		return nil, errorsmod.Wrapf(types.ErrMaxDeposit, "%s exceeds %s", coin.Amount, config.MaxDeposit)
	}
	if coin.Amount.LT(config.MinDeposit) {
		return nil, errorsmod.Wrapf(types.ErrMinDeposit, "%s is below %s", coin.Amount, config.MinDeposit)
	}

	pool, err := k.getActivePool(ctx, poolID)
	if err != nil {
		return nil, err
	}

	if _, err := k.ReconcileSlashing(ctx, &pool); err != nil {
		return nil, err
	}

	// a reconcile that wipes the pool also deactivates it
	if !pool.Active || !pool.SlashingPointer.IsPositive() {
		return nil, errorsmod.Wrapf(types.ErrPoolInactive, "pool %d", poolID)
	}

	val, err := k.SelectDepositValidator(ctx, pool)
	if err != nil {
		return nil, err
	}

	meta, err := k.GetValidatorMeta(ctx, val, pool.ID)
	if err != nil {
		return nil, err
	}

	meta.Staked = meta.Staked.Add(coin.Amount)
	if err := k.SetValidatorMeta(ctx, val, pool.ID, meta); err != nil {
		return nil, err
	}

	pool.Staked = pool.Staked.Add(coin.Amount)
	if err := k.SetPool(ctx, pool); err != nil {
		return nil, err
	}

	return []types.Instruction{
		types.DepositNotification{
			Contract: config.DelegatorContract,
			User:     user,
			PoolID:   pool.ID,
			Amount:   coin.Amount,
			Pointers: pool.Snapshot(),
		},
		types.StakeInstruction{
			Contract:  pool.ValidatorContract,
			Validator: val,
			Amount:    coin,
		},
	}, nil
}
