package types

import (
	"fmt"
	"time"

	"cosmossdk.io/math"
	"gopkg.in/yaml.v3"
)

// UndelegationBatch aggregates the undelegations queued on a pool during a
// single epoch.
//
// A batch is open while its id equals the pool's current batch id. Closing
// fixes UndelegatedAmount and EstReleaseTime; reconciling fixes
// UnbondingSlashingRatio.
type UndelegationBatch struct {
	PoolID uint64 `json:"pool_id" yaml:"pool_id"`
	ID     uint64 `json:"id" yaml:"id"`

	ProratedAmount    math.LegacyDec `json:"prorated_amount" yaml:"prorated_amount"`
	UndelegatedAmount math.Int       `json:"undelegated_amount" yaml:"undelegated_amount"`

	CreateTime     time.Time  `json:"create_time" yaml:"create_time"`
	EstReleaseTime *time.Time `json:"est_release_time,omitempty" yaml:"est_release_time,omitempty"`
	Reconciled     bool       `json:"reconciled" yaml:"reconciled"`

	LastUpdatedSlashingPointer math.LegacyDec `json:"last_updated_slashing_pointer" yaml:"last_updated_slashing_pointer"`
	UnbondingSlashingRatio     math.LegacyDec `json:"unbonding_slashing_ratio" yaml:"unbonding_slashing_ratio"`
}

// NewUndelegationBatch returns an empty open batch.
func NewUndelegationBatch(poolID, id uint64, createTime time.Time, slashingPointer math.LegacyDec) UndelegationBatch {
	return UndelegationBatch{
		PoolID:                     poolID,
		ID:                         id,
		ProratedAmount:             math.LegacyZeroDec(),
		UndelegatedAmount:          math.ZeroInt(),
		CreateTime:                 createTime,
		LastUpdatedSlashingPointer: slashingPointer,
		UnbondingSlashingRatio:     math.LegacyOneDec(),
	}
}

// String implements the Stringer interface for an UndelegationBatch object.
func (b UndelegationBatch) String() string {
	out, _ := yaml.Marshal(b)
	return string(out)
}

// IsClosed returns true once the batch has been undelegated on chain.
func (b UndelegationBatch) IsClosed() bool {
	return b.EstReleaseTime != nil
}

// IsDue returns true if the batch is closed and its unbonding period has
// elapsed at now.
func (b UndelegationBatch) IsDue(now time.Time) bool {
	return b.EstReleaseTime != nil && !b.EstReleaseTime.After(now)
}

// Prorate scales the queued principal by ratio and records the pointer it
// was scaled to.
func (b *UndelegationBatch) Prorate(ratio, slashingPointer math.LegacyDec) {
	b.ProratedAmount = b.ProratedAmount.Mul(ratio)
	b.LastUpdatedSlashingPointer = slashingPointer
}

// Close records the amount undelegated on chain and when it is released.
func (b *UndelegationBatch) Close(undelegated math.Int, releaseTime time.Time) {
	b.UndelegatedAmount = undelegated
	b.EstReleaseTime = &releaseTime
}

// Reconcile marks the batch settled with the fraction of expected funds
// actually released.
func (b *UndelegationBatch) Reconcile(ratio math.LegacyDec) {
	b.Reconciled = true
	b.UnbondingSlashingRatio = ratio
}

// Payout computes what a user who queued amount at userSlashingPointer
// receives from this batch once reconciled.
func (b UndelegationBatch) Payout(amount math.Int, userSlashingPointer math.LegacyDec) (math.Int, error) {
	if !b.Reconciled {
		return math.Int{}, ErrUndelegationBatchNotReconciled
	}

	if userSlashingPointer.IsNil() || !userSlashingPointer.IsPositive() {
		return math.Int{}, fmt.Errorf("user slashing pointer must be positive")
	}

	return math.LegacyNewDecFromInt(amount).
		Mul(b.LastUpdatedSlashingPointer).
		Quo(userSlashingPointer).
		Mul(b.UnbondingSlashingRatio).
		TruncateInt(), nil
}
