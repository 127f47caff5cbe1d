package main

import (
	"context"
	"fmt"
	"time"

	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/initia-labs/liquidstaking/x/liquidstaking/types"
)

var (
	_ types.ValidatorQuerier = (*chainFixture)(nil)
	_ types.BalanceQuerier   = (*chainFixture)(nil)
)

// chainFixture is a static view of the chain a replay runs against.
type chainFixture struct {
	Time time.Time `json:"time"`

	// Validators maps a validator to whether it is discoverable.
	Validators map[string]bool `json:"validators"`
	// Delegations is keyed by delegator, then validator.
	Delegations map[string]map[string]math.Int `json:"delegations"`
	// Unaccounted is keyed by validator contract.
	Unaccounted map[string]math.Int `json:"unaccounted"`
	Balances    map[string]sdk.Coins `json:"balances"`
	// Tokens is keyed by token contract, then holder.
	Tokens map[string]map[string]math.Int `json:"tokens"`
}

func readFixture(path string) (*chainFixture, error) {
	fixture := &chainFixture{}
	if err := readJSON(path, fixture); err != nil {
		return nil, err
	}

	if fixture.Time.IsZero() {
		return nil, fmt.Errorf("fixture %s: time is required", path)
	}

	return fixture, nil
}

// patchDelegations overwrites the given delegations, which is how a replay
// models slashing or released stake between steps.
func (f *chainFixture) patchDelegations(patch map[string]map[string]math.Int) {
	if f.Delegations == nil {
		f.Delegations = make(map[string]map[string]math.Int, len(patch))
	}

	for delegator, vals := range patch {
		if f.Delegations[delegator] == nil {
			f.Delegations[delegator] = make(map[string]math.Int, len(vals))
		}
		for val, amount := range vals {
			f.Delegations[delegator][val] = amount
		}
	}
}

func (f *chainFixture) Discoverable(_ context.Context, validator string) (bool, error) {
	return f.Validators[validator], nil
}

func (f *chainFixture) Delegation(_ context.Context, delegator, validator string) (math.Int, bool, error) {
	amount, found := f.Delegations[delegator][validator]
	if !found {
		return math.ZeroInt(), false, nil
	}

	return amount, true, nil
}

func (f *chainFixture) UnaccountedBaseFunds(_ context.Context, validatorContract string) (math.Int, error) {
	if amount, found := f.Unaccounted[validatorContract]; found {
		return amount, nil
	}

	return math.ZeroInt(), nil
}

func (f *chainFixture) Balance(_ context.Context, holder, denom string) (math.Int, error) {
	return f.Balances[holder].AmountOf(denom), nil
}

func (f *chainFixture) TokenBalance(_ context.Context, tokenContract, holder string) (math.Int, error) {
	if amount, found := f.Tokens[tokenContract][holder]; found {
		return amount, nil
	}

	return math.ZeroInt(), nil
}
