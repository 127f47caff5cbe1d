package keeper

import (
	"fmt"

	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/initia-labs/liquidstaking/x/liquidstaking/types"
)

// RegisterInvariants registers all liquidstaking invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "staked-sum",
		StakedSumInvariant(k))
	ir.RegisterRoute(types.ModuleName, "pointer-bounds",
		PointerBoundsInvariant(k))
	ir.RegisterRoute(types.ModuleName, "batch-ids",
		BatchIDsInvariant(k))
}

// AllInvariants runs all invariants of the liquidstaking module.
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := StakedSumInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		res, stop = PointerBoundsInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		return BatchIDsInvariant(k)(ctx)
	}
}

// StakedSumInvariant checks that the stake tracked per validator adds up to
// the stake of each pool.
func StakedSumInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg    string
			broken bool
		)

		err := k.IteratePools(ctx, func(pool types.Pool) (bool, error) {
			sum := math.ZeroInt()
			for _, val := range pool.Validators {
				meta, err := k.GetValidatorMeta(ctx, val, pool.ID)
				if err != nil {
					return true, err
				}
				sum = sum.Add(meta.Staked)
			}

			if !sum.Equal(pool.Staked) {
				broken = true
				msg += fmt.Sprintf("\tpool %d staked %s, validators track %s\n", pool.ID, pool.Staked, sum)
			}

			return false, nil
		})
		if err != nil {
			panic(err)
		}

		return sdk.FormatInvariant(types.ModuleName, "staked-sum",
			fmt.Sprintf("pools whose stake differs from their validators:\n%s", msg)), broken
	}
}

// PointerBoundsInvariant checks that slashing pointers stay in [0, 1] and
// reward and airdrop pointers are not negative.
func PointerBoundsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg    string
			broken bool
		)

		err := k.IteratePools(ctx, func(pool types.Pool) (bool, error) {
			if pool.SlashingPointer.IsNegative() || pool.SlashingPointer.GT(math.LegacyOneDec()) {
				broken = true
				msg += fmt.Sprintf("\tpool %d slashing pointer %s\n", pool.ID, pool.SlashingPointer)
			}

			if pool.RewardsPointer.IsNegative() {
				broken = true
				msg += fmt.Sprintf("\tpool %d rewards pointer %s\n", pool.ID, pool.RewardsPointer)
			}

			if pool.AirdropsPointer.IsAnyNegative() {
				broken = true
				msg += fmt.Sprintf("\tpool %d airdrops pointer %s\n", pool.ID, pool.AirdropsPointer)
			}

			return false, nil
		})
		if err != nil {
			panic(err)
		}

		return sdk.FormatInvariant(types.ModuleName, "pointer-bounds",
			fmt.Sprintf("pools with out of range pointers:\n%s", msg)), broken
	}
}

// BatchIDsInvariant checks that every pool has its open batch stored and
// that the last reconciled batch is behind it.
func BatchIDsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg    string
			broken bool
		)

		err := k.IteratePools(ctx, func(pool types.Pool) (bool, error) {
			if pool.LastReconciledBatchID >= pool.CurrentUndelegationBatchID {
				broken = true
				msg += fmt.Sprintf("\tpool %d reconciled batch %d is not behind open batch %d\n",
					pool.ID, pool.LastReconciledBatchID, pool.CurrentUndelegationBatchID)
			}

			batch, err := k.GetUndelegationBatch(ctx, pool.ID, pool.CurrentUndelegationBatchID)
			if err != nil {
				broken = true
				msg += fmt.Sprintf("\tpool %d open batch %d: %s\n", pool.ID, pool.CurrentUndelegationBatchID, err)
			} else if batch.IsClosed() {
				broken = true
				msg += fmt.Sprintf("\tpool %d open batch %d is closed\n", pool.ID, batch.ID)
			}

			return false, nil
		})
		if err != nil {
			panic(err)
		}

		return sdk.FormatInvariant(types.ModuleName, "batch-ids",
			fmt.Sprintf("pools with inconsistent batch ids:\n%s", msg)), broken
	}
}
