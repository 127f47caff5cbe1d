package types

import (
	"context"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// Msg is an operation executed by the module. The set of implementations is
// closed; see AllMsgs.
type Msg interface {
	// Type is the operation name used in events and logs.
	Type() string
	// ValidateBasic performs stateless checks.
	ValidateBasic() error

	isMsg()
}

// MsgInfo carries the sender of a message and the funds attached to it.
type MsgInfo struct {
	Sender string    `json:"sender"`
	Funds  sdk.Coins `json:"funds"`
}

// ExecuteRequest wraps a single message for the dispatcher.
type ExecuteRequest struct {
	MsgInfo
	Msg Msg `json:"msg"`
}

// ExecuteResponse lists the instructions produced by a message, in the
// order they must be delivered.
type ExecuteResponse struct {
	Instructions []Instruction `json:"instructions"`
}

// MsgServer executes module messages.
type MsgServer interface {
	Execute(ctx context.Context, req *ExecuteRequest) (*ExecuteResponse, error)
}

// AirdropRate is a single airdrop claim for a pool.
type AirdropRate struct {
	PoolID uint64   `json:"pool_id"`
	Denom  string   `json:"denom"`
	Amount math.Int `json:"amount"`
	Stage  uint64   `json:"stage"`
	Proof  []string `json:"proof"`
}

// AirdropTransferRequest pulls the staged balance of denom into a pool.
type AirdropTransferRequest struct {
	PoolID uint64 `json:"pool_id"`
	Denom  string `json:"denom"`
}

type MsgAddPool struct {
	Name                string         `json:"name"`
	ValidatorContract   string         `json:"validator_contract"`
	RewardContract      string         `json:"reward_contract"`
	ProtocolFeeContract string         `json:"protocol_fee_contract"`
	ProtocolFeePercent  math.LegacyDec `json:"protocol_fee_percent"`
}

type MsgAddValidator struct {
	PoolID    uint64 `json:"pool_id"`
	Validator string `json:"validator"`
}

type MsgRemoveValidator struct {
	PoolID       uint64 `json:"pool_id"`
	Validator    string `json:"validator"`
	RedelegateTo string `json:"redelegate_to"`
}

type MsgRebalancePool struct {
	PoolID       uint64   `json:"pool_id"`
	Validator    string   `json:"validator"`
	RedelegateTo string   `json:"redelegate_to"`
	Amount       math.Int `json:"amount"`
}

type MsgDeposit struct {
	PoolID uint64 `json:"pool_id"`
}

type MsgRedeemRewards struct {
	PoolIDs []uint64 `json:"pool_ids"`
}

type MsgSwap struct {
	PoolIDs []uint64 `json:"pool_ids"`
}

type MsgSendRewardsToScc struct {
	PoolIDs []uint64 `json:"pool_ids"`
}

// MsgUpdateRewardsPointer attributes swapped rewards to a pool's stakers.
type MsgUpdateRewardsPointer struct {
	PoolID uint64   `json:"pool_id"`
	Amount math.Int `json:"amount"`
}

type MsgQueueUndelegate struct {
	PoolID uint64   `json:"pool_id"`
	Amount math.Int `json:"amount"`
}

type MsgUndelegate struct {
	PoolID uint64 `json:"pool_id"`
}

type MsgReconcileFunds struct {
	PoolID uint64 `json:"pool_id"`
}

type MsgWithdrawFundsToWallet struct {
	PoolID       uint64 `json:"pool_id"`
	BatchID      uint64 `json:"batch_id"`
	UndelegateID uint64 `json:"undelegate_id"`
}

type MsgClaimAirdrops struct {
	Rates []AirdropRate `json:"rates"`
}

type MsgUpdateAirdropPointers struct {
	Transfers []AirdropTransferRequest `json:"transfers"`
}

// MsgUpdatePoolMetadata updates the non-nil fields of a pool.
type MsgUpdatePoolMetadata struct {
	PoolID              uint64          `json:"pool_id"`
	Active              *bool           `json:"active,omitempty"`
	RewardContract      *string         `json:"reward_contract,omitempty"`
	ProtocolFeeContract *string         `json:"protocol_fee_contract,omitempty"`
	ProtocolFeePercent  *math.LegacyDec `json:"protocol_fee_percent,omitempty"`
}

// MsgUpdateConfig updates the non-nil fields of the module config.
type MsgUpdateConfig struct {
	DelegatorContract   *string   `json:"delegator_contract,omitempty"`
	SccContract         *string   `json:"scc_contract,omitempty"`
	MinDeposit          *math.Int `json:"min_deposit,omitempty"`
	MaxDeposit          *math.Int `json:"max_deposit,omitempty"`
	UnbondingPeriod     *uint64   `json:"unbonding_period,omitempty"`
	UnbondingBuffer     *uint64   `json:"unbonding_buffer,omitempty"`
	ReconcileBatchLimit *uint64   `json:"reconcile_batch_limit,omitempty"`
}

type MsgUpdateAirdropRegistry struct {
	Denom           string `json:"denom"`
	AirdropContract string `json:"airdrop_contract"`
	TokenContract   string `json:"token_contract"`
}

// AllMsgs returns a zero value of every message type.
func AllMsgs() []Msg {
	return []Msg{
		&MsgAddPool{},
		&MsgAddValidator{},
		&MsgRemoveValidator{},
		&MsgRebalancePool{},
		&MsgDeposit{},
		&MsgRedeemRewards{},
		&MsgSwap{},
		&MsgSendRewardsToScc{},
		&MsgUpdateRewardsPointer{},
		&MsgQueueUndelegate{},
		&MsgUndelegate{},
		&MsgReconcileFunds{},
		&MsgWithdrawFundsToWallet{},
		&MsgClaimAirdrops{},
		&MsgUpdateAirdropPointers{},
		&MsgUpdatePoolMetadata{},
		&MsgUpdateConfig{},
		&MsgUpdateAirdropRegistry{},
	}
}

func (*MsgAddPool) isMsg() {}
func (*MsgAddValidator) isMsg() {}
func (*MsgRemoveValidator) isMsg() {}
func (*MsgRebalancePool) isMsg() {}
func (*MsgDeposit) isMsg() {}
func (*MsgRedeemRewards) isMsg() {}
func (*MsgSwap) isMsg() {}
func (*MsgSendRewardsToScc) isMsg() {}
func (*MsgUpdateRewardsPointer) isMsg() {}
func (*MsgQueueUndelegate) isMsg() {}
func (*MsgUndelegate) isMsg() {}
func (*MsgReconcileFunds) isMsg() {}
func (*MsgWithdrawFundsToWallet) isMsg() {}
func (*MsgClaimAirdrops) isMsg() {}
func (*MsgUpdateAirdropPointers) isMsg() {}
func (*MsgUpdatePoolMetadata) isMsg() {}
func (*MsgUpdateConfig) isMsg() {}
func (*MsgUpdateAirdropRegistry) isMsg() {}

func (*MsgAddPool) Type() string { return "add_pool" }
func (*MsgAddValidator) Type() string { return "add_validator" }
func (*MsgRemoveValidator) Type() string { return "remove_validator" }
func (*MsgRebalancePool) Type() string { return "rebalance_pool" }
func (*MsgDeposit) Type() string { return "deposit" }
func (*MsgRedeemRewards) Type() string { return "redeem_rewards" }
func (*MsgSwap) Type() string { return "swap" }
func (*MsgSendRewardsToScc) Type() string { return "send_rewards_to_scc" }
func (*MsgUpdateRewardsPointer) Type() string { return "update_rewards_pointer" }
func (*MsgQueueUndelegate) Type() string { return "queue_undelegate" }
func (*MsgUndelegate) Type() string { return "undelegate" }
func (*MsgReconcileFunds) Type() string { return "reconcile_funds" }
func (*MsgWithdrawFundsToWallet) Type() string { return "withdraw_funds_to_wallet" }
func (*MsgClaimAirdrops) Type() string { return "claim_airdrops" }
func (*MsgUpdateAirdropPointers) Type() string { return "update_airdrop_pointers" }
func (*MsgUpdatePoolMetadata) Type() string { return "update_pool_metadata" }
func (*MsgUpdateConfig) Type() string { return "update_config" }
func (*MsgUpdateAirdropRegistry) Type() string { return "update_airdrop_registry" }

func (msg *MsgAddPool) ValidateBasic() error {
	if strings.TrimSpace(msg.Name) == "" {
		return errorsmod.Wrap(sdkerrors.ErrInvalidRequest, "empty pool name")
	}

	if msg.ValidatorContract == "" || msg.RewardContract == "" || msg.ProtocolFeeContract == "" {
		return errorsmod.Wrap(sdkerrors.ErrInvalidAddress, "empty contract address")
	}

	if err := validateFeePercent(msg.ProtocolFeePercent); err != nil {
		return errorsmod.Wrap(sdkerrors.ErrInvalidRequest, err.Error())
	}

	return nil
}

func (msg *MsgAddValidator) ValidateBasic() error {
	if msg.Validator == "" {
		return errorsmod.Wrap(sdkerrors.ErrInvalidAddress, "empty validator address")
	}

	return nil
}

func (msg *MsgRemoveValidator) ValidateBasic() error {
	return validateValidatorMove(msg.Validator, msg.RedelegateTo)
}

func (msg *MsgRebalancePool) ValidateBasic() error {
	if err := validateValidatorMove(msg.Validator, msg.RedelegateTo); err != nil {
		return err
	}

	return validatePositive(msg.Amount)
}

func (msg *MsgDeposit) ValidateBasic() error {
	return nil
}

func (msg *MsgRedeemRewards) ValidateBasic() error {
	return validatePoolIDs(msg.PoolIDs)
}

func (msg *MsgSwap) ValidateBasic() error {
	return validatePoolIDs(msg.PoolIDs)
}

func (msg *MsgSendRewardsToScc) ValidateBasic() error {
	return validatePoolIDs(msg.PoolIDs)
}

func (msg *MsgUpdateRewardsPointer) ValidateBasic() error {
	return validatePositive(msg.Amount)
}

func (msg *MsgQueueUndelegate) ValidateBasic() error {
	return validatePositive(msg.Amount)
}

func (msg *MsgUndelegate) ValidateBasic() error {
	return nil
}

func (msg *MsgReconcileFunds) ValidateBasic() error {
	return nil
}

func (msg *MsgWithdrawFundsToWallet) ValidateBasic() error {
	return nil
}

func (msg *MsgClaimAirdrops) ValidateBasic() error {
	for _, rate := range msg.Rates {
		if err := sdk.ValidateDenom(strings.ToLower(rate.Denom)); err != nil {
			return errorsmod.Wrap(sdkerrors.ErrInvalidRequest, err.Error())
		}

		if err := validatePositive(rate.Amount); err != nil {
			return err
		}
	}

	return nil
}

func (msg *MsgUpdateAirdropPointers) ValidateBasic() error {
	for _, transfer := range msg.Transfers {
		if err := sdk.ValidateDenom(strings.ToLower(transfer.Denom)); err != nil {
			return errorsmod.Wrap(sdkerrors.ErrInvalidRequest, err.Error())
		}
	}

	return nil
}

func (msg *MsgUpdatePoolMetadata) ValidateBasic() error {
	if msg.RewardContract != nil && *msg.RewardContract == "" {
		return errorsmod.Wrap(sdkerrors.ErrInvalidAddress, "empty reward contract")
	}

	if msg.ProtocolFeeContract != nil && *msg.ProtocolFeeContract == "" {
		return errorsmod.Wrap(sdkerrors.ErrInvalidAddress, "empty protocol fee contract")
	}

	if msg.ProtocolFeePercent != nil {
		if err := validateFeePercent(*msg.ProtocolFeePercent); err != nil {
			return errorsmod.Wrap(sdkerrors.ErrInvalidRequest, err.Error())
		}
	}

	return nil
}

func (msg *MsgUpdateConfig) ValidateBasic() error {
	if msg.DelegatorContract != nil && *msg.DelegatorContract == "" {
		return errorsmod.Wrap(sdkerrors.ErrInvalidAddress, "empty delegator contract")
	}

	if msg.SccContract != nil && *msg.SccContract == "" {
		return errorsmod.Wrap(sdkerrors.ErrInvalidAddress, "empty scc contract")
	}

	return nil
}

func (msg *MsgUpdateAirdropRegistry) ValidateBasic() error {
	if err := sdk.ValidateDenom(strings.ToLower(msg.Denom)); err != nil {
		return errorsmod.Wrap(sdkerrors.ErrInvalidRequest, err.Error())
	}

	if msg.AirdropContract == "" || msg.TokenContract == "" {
		return errorsmod.Wrap(sdkerrors.ErrInvalidAddress, "empty contract address")
	}

	return nil
}

// Apply writes the non-nil fields onto config.
func (msg *MsgUpdateConfig) Apply(config Config) Config {
	if msg.DelegatorContract != nil {
		config.DelegatorContract = *msg.DelegatorContract
	}
	if msg.SccContract != nil {
		config.SccContract = *msg.SccContract
	}
	if msg.MinDeposit != nil {
		config.MinDeposit = *msg.MinDeposit
	}
	if msg.MaxDeposit != nil {
		config.MaxDeposit = *msg.MaxDeposit
	}
	if msg.UnbondingPeriod != nil {
		config.UnbondingPeriod = *msg.UnbondingPeriod
	}
	if msg.UnbondingBuffer != nil {
		config.UnbondingBuffer = *msg.UnbondingBuffer
	}
	if msg.ReconcileBatchLimit != nil {
		config.ReconcileBatchLimit = *msg.ReconcileBatchLimit
	}

	return config
}

// AirdropDenom normalizes an airdrop denom to its registry key.
func AirdropDenom(denom string) string {
	return strings.ToLower(denom)
}

func validateValidatorMove(src, dst string) error {
	if src == "" || dst == "" {
		return errorsmod.Wrap(sdkerrors.ErrInvalidAddress, "empty validator address")
	}

	if src == dst {
		return ErrValidatorsCannotBeSame
	}

	return nil
}

func validatePositive(amount math.Int) error {
	if amount.IsNil() || !amount.IsPositive() {
		return ErrZeroAmount
	}

	return nil
}

func validatePoolIDs(poolIDs []uint64) error {
	if len(poolIDs) == 0 {
		return errorsmod.Wrap(sdkerrors.ErrInvalidRequest, "no pool ids")
	}

	return nil
}
