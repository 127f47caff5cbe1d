package keeper

import (
	"context"
	"slices"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	"github.com/initia-labs/liquidstaking/x/liquidstaking/types"
)

// UndelegationSource is the amount taken from a single validator to fill an
// undelegation target.
type UndelegationSource struct {
	Validator string
	Amount    math.Int
}

type validatorStake struct {
	validator string
	onChain   math.Int
}

func (k Keeper) onChainDelegation(ctx context.Context, pool types.Pool, val string) (math.Int, error) {
	amount, found, err := k.validatorQuerier.Delegation(ctx, pool.ValidatorContract, val)
	if err != nil {
		return math.Int{}, err
	} else if !found {
		return math.ZeroInt(), nil
	}

	return amount, nil
}

// SelectDepositValidator returns the discoverable validator of the pool with
// the lowest on-chain delegation. Ties go to the validator listed first.
func (k Keeper) SelectDepositValidator(ctx context.Context, pool types.Pool) (string, error) {
	if len(pool.Validators) == 0 {
		return "", errorsmod.Wrapf(types.ErrNoValidatorsInPool, "pool %d", pool.ID)
	}

	var (
		selected string
		lowest   math.Int
	)
	for _, val := range pool.Validators {
		discoverable, err := k.validatorQuerier.Discoverable(ctx, val)
		if err != nil {
			return "", err
		} else if !discoverable {
			continue
		}

		amount, err := k.onChainDelegation(ctx, pool, val)
		if err != nil {
			return "", err
		}

		if selected == "" || amount.LT(lowest) {
			selected = val
			lowest = amount
		}
	}

	if selected == "" {
		return "", errorsmod.Wrapf(types.ErrAllValidatorsJailed, "pool %d", pool.ID)
	}

	return selected, nil
}

// SelectUndelegationSources splits target across the pool's validators,
// draining the ones with the largest on-chain delegation first. Validators
// with equal stake are drained from the end of the list. Each validator
// gives at most its tracked stake.
func (k Keeper) SelectUndelegationSources(ctx context.Context, pool types.Pool, target math.Int) ([]UndelegationSource, error) {
	stakes := make([]validatorStake, 0, len(pool.Validators))
	for _, val := range slices.Backward(pool.Validators) {
		amount, err := k.onChainDelegation(ctx, pool, val)
		if err != nil {
			return nil, err
		}

		stakes = append(stakes, validatorStake{validator: val, onChain: amount})
	}

	slices.SortStableFunc(stakes, func(a, b validatorStake) int {
		switch {
		case a.onChain.GT(b.onChain):
			return -1
		case a.onChain.LT(b.onChain):
			return 1
		}
		return 0
	})

	remaining := target
	sources := []UndelegationSource{}
	for _, stake := range stakes {
		if !remaining.IsPositive() {
			break
		}

		meta, err := k.GetValidatorMeta(ctx, stake.validator, pool.ID)
		if err != nil {
			return nil, err
		}

		take := math.MinInt(remaining, meta.Staked)
		if !take.IsPositive() {
			continue
		}

		sources = append(sources, UndelegationSource{Validator: stake.validator, Amount: take})
		remaining = remaining.Sub(take)
	}

	if remaining.IsPositive() {
		return nil, errorsmod.Wrapf(types.ErrInsufficientFunds, "pool %d is short %s of %s", pool.ID, remaining, target)
	}

	return sources, nil
}
