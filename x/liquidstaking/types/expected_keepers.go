package types

import (
	"context"

	"cosmossdk.io/math"
)

// ValidatorQuerier exposes the on-chain staking state seen by a pool's
// validator contract (noalias)
type ValidatorQuerier interface {
	// Discoverable returns false if the validator is jailed or no longer
	// part of the chain's validator set.
	Discoverable(ctx context.Context, validator string) (bool, error)

	// Delegation returns the amount delegator has bonded to validator. The
	// second return value is false when no delegation exists.
	Delegation(ctx context.Context, delegator, validator string) (math.Int, bool, error)

	// UnaccountedBaseFunds returns the liquid vault denom held by the
	// validator contract that has not yet been attributed to a batch.
	UnaccountedBaseFunds(ctx context.Context, validatorContract string) (math.Int, error)
}

// BalanceQuerier defines the expected interface needed to retrieve
// collaborator balances (noalias)
type BalanceQuerier interface {
	// Balance returns the native balance of holder in denom.
	Balance(ctx context.Context, holder, denom string) (math.Int, error)

	// TokenBalance returns the balance holder has in a token contract.
	TokenBalance(ctx context.Context, tokenContract, holder string) (math.Int, error)
}
