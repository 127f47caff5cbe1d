package types

import (
	"fmt"
	"slices"

	"cosmossdk.io/math"
	"gopkg.in/yaml.v3"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Pool is an accounting unit owning a set of validators and the stake
// delegated across them.
type Pool struct {
	ID   uint64 `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`

	Active              bool   `json:"active" yaml:"active"`
	ValidatorContract   string `json:"validator_contract" yaml:"validator_contract"`
	RewardContract      string `json:"reward_contract" yaml:"reward_contract"`
	ProtocolFeeContract string `json:"protocol_fee_contract" yaml:"protocol_fee_contract"`

	ProtocolFeePercent math.LegacyDec `json:"protocol_fee_percent" yaml:"protocol_fee_percent"`

	// Validators is kept in insertion order; deposit and undelegation
	// selection break ties on it.
	Validators []string `json:"validators" yaml:"validators"`
	Staked     math.Int `json:"staked" yaml:"staked"`

	RewardsPointer  math.LegacyDec `json:"rewards_pointer" yaml:"rewards_pointer"`
	AirdropsPointer sdk.DecCoins   `json:"airdrops_pointer" yaml:"airdrops_pointer"`
	SlashingPointer math.LegacyDec `json:"slashing_pointer" yaml:"slashing_pointer"`

	CurrentUndelegationBatchID uint64 `json:"current_undelegation_batch_id" yaml:"current_undelegation_batch_id"`
	LastReconciledBatchID      uint64 `json:"last_reconciled_batch_id" yaml:"last_reconciled_batch_id"`
}

// PointerSnapshot is the set of pool pointers forwarded to the delegator
// contract so it can settle user shares.
type PointerSnapshot struct {
	RewardsPointer  math.LegacyDec `json:"rewards_pointer"`
	AirdropsPointer sdk.DecCoins   `json:"airdrops_pointer"`
	SlashingPointer math.LegacyDec `json:"slashing_pointer"`
}

// ValidatorMeta tracks the stake a pool has with a single validator.
type ValidatorMeta struct {
	Staked  math.Int `json:"staked" yaml:"staked"`
	Slashed math.Int `json:"slashed" yaml:"slashed"`
	Filled  math.Int `json:"filled" yaml:"filled"`
}

// AirdropRegistryInfo links an airdrop denom to the contracts serving it.
type AirdropRegistryInfo struct {
	AirdropContract string `json:"airdrop_contract" yaml:"airdrop_contract"`
	TokenContract   string `json:"token_contract" yaml:"token_contract"`
}

// NewPool creates an active pool with a fresh slashing pointer and the
// first undelegation batch open.
func NewPool(
	id uint64, name, validatorContract, rewardContract, protocolFeeContract string,
	protocolFeePercent math.LegacyDec,
) Pool {
	return Pool{
		ID:                         id,
		Name:                       name,
		Active:                     true,
		ValidatorContract:          validatorContract,
		RewardContract:             rewardContract,
		ProtocolFeeContract:        protocolFeeContract,
		ProtocolFeePercent:         protocolFeePercent,
		Validators:                 []string{},
		Staked:                     math.ZeroInt(),
		RewardsPointer:             math.LegacyZeroDec(),
		AirdropsPointer:            sdk.DecCoins{},
		SlashingPointer:            math.LegacyOneDec(),
		CurrentUndelegationBatchID: 1,
		LastReconciledBatchID:      0,
	}
}

// NewValidatorMeta returns an empty validator track.
func NewValidatorMeta() ValidatorMeta {
	return ValidatorMeta{
		Staked:  math.ZeroInt(),
		Slashed: math.ZeroInt(),
		Filled:  math.ZeroInt(),
	}
}

// String implements the Stringer interface for a Pool object.
func (p Pool) String() string {
	out, _ := yaml.Marshal(p)
	return string(out)
}

// HasValidator returns true if the validator belongs to the pool.
func (p Pool) HasValidator(val string) bool {
	return slices.Contains(p.Validators, val)
}

// RemoveValidator drops the validator from the list, keeping the relative
// order of the others.
func (p *Pool) RemoveValidator(val string) {
	p.Validators = slices.DeleteFunc(slices.Clone(p.Validators), func(v string) bool {
		return v == val
	})
}

// Snapshot returns a copy of the current pointers.
func (p Pool) Snapshot() PointerSnapshot {
	return PointerSnapshot{
		RewardsPointer:  p.RewardsPointer,
		AirdropsPointer: slices.Clone(p.AirdropsPointer),
		SlashingPointer: p.SlashingPointer,
	}
}

// AccrueRewards attributes newly pulled rewards to the current stake.
func (p *Pool) AccrueRewards(amount math.Int) error {
	delta, err := p.perShare(amount)
	if err != nil {
		return err
	}

	p.RewardsPointer = p.RewardsPointer.Add(delta)
	return nil
}

// AccrueAirdrop attributes newly pulled airdrop tokens to the current stake.
func (p *Pool) AccrueAirdrop(denom string, amount math.Int) error {
	delta, err := p.perShare(amount)
	if err != nil {
		return err
	}

	p.AirdropsPointer = p.AirdropsPointer.Add(sdk.NewDecCoinFromDec(denom, delta))
	return nil
}

func (p Pool) perShare(amount math.Int) (math.LegacyDec, error) {
	if amount.IsNil() || !amount.IsPositive() {
		return math.LegacyDec{}, ErrZeroAmount
	}

	if !p.Staked.IsPositive() {
		return math.LegacyDec{}, ErrZeroStaked
	}

	return math.LegacyNewDecFromInt(amount).QuoInt(p.Staked), nil
}

// ApplySlashing shrinks the pool stake to newStaked and decays the
// slashing pointer by the same ratio, which is returned.
func (p *Pool) ApplySlashing(newStaked math.Int) math.LegacyDec {
	ratio := math.LegacyOneDec()
	if p.Staked.IsPositive() {
		ratio = math.LegacyNewDecFromInt(newStaked).QuoInt(p.Staked)
	}

	p.SlashingPointer = p.SlashingPointer.Mul(ratio)
	p.Staked = newStaked

	return ratio
}

// ProtocolFee splits the given reward balance into the protocol fee and the
// remainder forwarded to stakers.
func (p Pool) ProtocolFee(balance math.Int) (fee, remainder math.Int) {
	fee = p.ProtocolFeePercent.MulInt(balance).TruncateInt()
	return fee, balance.Sub(fee)
}

// Validate performs stateless validation of the pool.
func (p Pool) Validate() error {
	if p.ValidatorContract == "" {
		return fmt.Errorf("pool %d: empty validator contract", p.ID)
	}

	if p.RewardContract == "" {
		return fmt.Errorf("pool %d: empty reward contract", p.ID)
	}

	if err := validateFeePercent(p.ProtocolFeePercent); err != nil {
		return fmt.Errorf("pool %d: %w", p.ID, err)
	}

	if p.Staked.IsNil() || p.Staked.IsNegative() {
		return fmt.Errorf("pool %d: invalid staked amount", p.ID)
	}

	if p.SlashingPointer.IsNil() || p.SlashingPointer.IsNegative() || p.SlashingPointer.GT(math.LegacyOneDec()) {
		return fmt.Errorf("pool %d: slashing pointer out of range: %s", p.ID, p.SlashingPointer)
	}

	if p.Active && !p.SlashingPointer.IsPositive() {
		return fmt.Errorf("pool %d: active with zero slashing pointer", p.ID)
	}

	if p.RewardsPointer.IsNil() || p.RewardsPointer.IsNegative() {
		return fmt.Errorf("pool %d: invalid rewards pointer", p.ID)
	}

	if err := p.AirdropsPointer.Validate(); err != nil {
		return fmt.Errorf("pool %d: invalid airdrops pointer: %w", p.ID, err)
	}

	if p.LastReconciledBatchID >= p.CurrentUndelegationBatchID {
		return fmt.Errorf("pool %d: last reconciled batch %d must be below current batch %d",
			p.ID, p.LastReconciledBatchID, p.CurrentUndelegationBatchID)
	}

	seen := make(map[string]struct{}, len(p.Validators))
	for _, val := range p.Validators {
		if _, ok := seen[val]; ok {
			return fmt.Errorf("pool %d: duplicate validator %s", p.ID, val)
		}
		seen[val] = struct{}{}
	}

	return nil
}

func validateFeePercent(v math.LegacyDec) error {
	if v.IsNil() {
		return fmt.Errorf("protocol fee percent must be set")
	}

	if v.IsNegative() {
		return fmt.Errorf("protocol fee percent should be bigger than 0.0")
	}

	if v.GT(math.LegacyOneDec()) {
		return fmt.Errorf("protocol fee percent should be smaller than 1.0")
	}

	return nil
}
