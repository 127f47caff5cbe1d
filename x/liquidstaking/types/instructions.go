package types

import (
	"strconv"
	"strings"

	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Instruction is an outbound message addressed to a collaborator contract.
// Handlers return them in execution order; the host delivers them after the
// state transition commits.
type Instruction interface {
	// Target is the address of the collaborator the instruction is for.
	Target() string
	// Event renders the instruction for the event log.
	Event() sdk.Event

	isInstruction()
}

// Validator contract instructions

// StakeInstruction delegates the attached funds to a validator.
type StakeInstruction struct {
	Contract  string   `json:"contract"`
	Validator string   `json:"validator"`
	Amount    sdk.Coin `json:"amount"`
}

// UndelegateInstruction unbonds stake from a validator.
type UndelegateInstruction struct {
	Contract  string   `json:"contract"`
	Validator string   `json:"validator"`
	Amount    math.Int `json:"amount"`
}

// RedelegateInstruction moves stake between two validators.
type RedelegateInstruction struct {
	Contract     string   `json:"contract"`
	SrcValidator string   `json:"src_validator"`
	DstValidator string   `json:"dst_validator"`
	Amount       math.Int `json:"amount"`
}

// AddValidatorInstruction registers a validator with the validator contract.
type AddValidatorInstruction struct {
	Contract  string `json:"contract"`
	Validator string `json:"validator"`
}

// RemoveValidatorInstruction unregisters a validator, redelegating its whole
// stake to RedelegateTo.
type RemoveValidatorInstruction struct {
	Contract     string `json:"contract"`
	Validator    string `json:"validator"`
	RedelegateTo string `json:"redelegate_to"`
}

// SetRewardWithdrawAddressInstruction points the distribution withdraw
// address of the validator contract at the pool's reward contract.
type SetRewardWithdrawAddressInstruction struct {
	Contract       string `json:"contract"`
	RewardContract string `json:"reward_contract"`
}

// RedeemRewardsInstruction withdraws accrued rewards from the validators.
type RedeemRewardsInstruction struct {
	Contract   string   `json:"contract"`
	Validators []string `json:"validators"`
}

// MerkleClaim is the payload sent to a merkle airdrop contract.
type MerkleClaim struct {
	Stage  uint64   `json:"stage"`
	Amount math.Int `json:"amount"`
	Proof  []string `json:"proof"`
}

// ClaimAirdropInstruction claims an airdrop into the validator contract,
// which stages the tokens until the pointers are updated.
type ClaimAirdropInstruction struct {
	Contract        string      `json:"contract"`
	AirdropContract string      `json:"airdrop_contract"`
	Amount          math.Int    `json:"amount"`
	Claim           MerkleClaim `json:"claim"`
}

// TransferAirdropInstruction moves staged airdrop tokens out of the
// validator contract.
type TransferAirdropInstruction struct {
	Contract      string   `json:"contract"`
	TokenContract string   `json:"token_contract"`
	Amount        math.Int `json:"amount"`
}

// TransferReconciledFundsInstruction moves released unbonded funds out of
// the validator contract.
type TransferReconciledFundsInstruction struct {
	Contract string   `json:"contract"`
	Amount   math.Int `json:"amount"`
}

// Reward contract instructions

// SwapInstruction converts the reward contract holdings into the vault denom.
type SwapInstruction struct {
	Contract string `json:"contract"`
}

// TransferRewardsInstruction splits the reward contract balance between the
// rewards sink and the protocol fee collector.
type TransferRewardsInstruction struct {
	Contract             string   `json:"contract"`
	RewardAmount         math.Int `json:"reward_amount"`
	RewardRecipient      string   `json:"reward_recipient"`
	ProtocolFeeAmount    math.Int `json:"protocol_fee_amount"`
	ProtocolFeeRecipient string   `json:"protocol_fee_recipient"`
}

// Delegator contract notifications

// DepositNotification credits a user deposit against the pointers it was
// made at.
type DepositNotification struct {
	Contract string          `json:"contract"`
	User     string          `json:"user"`
	PoolID   uint64          `json:"pool_id"`
	Amount   math.Int        `json:"amount"`
	Pointers PointerSnapshot `json:"pointers"`
}

// UndelegateNotification records a queued undelegation for a user.
type UndelegateNotification struct {
	Contract string          `json:"contract"`
	User     string          `json:"user"`
	PoolID   uint64          `json:"pool_id"`
	BatchID  uint64          `json:"batch_id"`
	Amount   math.Int        `json:"amount"`
	Pointers PointerSnapshot `json:"pointers"`
}

// WithdrawNotification releases a reconciled undelegation to a user.
type WithdrawNotification struct {
	Contract               string         `json:"contract"`
	User                   string         `json:"user"`
	PoolID                 uint64         `json:"pool_id"`
	BatchID                uint64         `json:"batch_id"`
	UndelegateID           uint64         `json:"undelegate_id"`
	BatchSlashingPointer   math.LegacyDec `json:"batch_slashing_pointer"`
	UnbondingSlashingRatio math.LegacyDec `json:"unbonding_slashing_ratio"`
}

var (
	_ Instruction = StakeInstruction{}
	_ Instruction = UndelegateInstruction{}
	_ Instruction = RedelegateInstruction{}
	_ Instruction = AddValidatorInstruction{}
	_ Instruction = RemoveValidatorInstruction{}
	_ Instruction = SetRewardWithdrawAddressInstruction{}
	_ Instruction = RedeemRewardsInstruction{}
	_ Instruction = ClaimAirdropInstruction{}
	_ Instruction = TransferAirdropInstruction{}
	_ Instruction = TransferReconciledFundsInstruction{}
	_ Instruction = SwapInstruction{}
	_ Instruction = TransferRewardsInstruction{}
	_ Instruction = DepositNotification{}
	_ Instruction = UndelegateNotification{}
	_ Instruction = WithdrawNotification{}
)

func (StakeInstruction) isInstruction() {}
func (UndelegateInstruction) isInstruction() {}
func (RedelegateInstruction) isInstruction() {}
func (AddValidatorInstruction) isInstruction() {}
func (RemoveValidatorInstruction) isInstruction() {}
func (SetRewardWithdrawAddressInstruction) isInstruction() {}
func (RedeemRewardsInstruction) isInstruction() {}
func (ClaimAirdropInstruction) isInstruction() {}
func (TransferAirdropInstruction) isInstruction() {}
func (TransferReconciledFundsInstruction) isInstruction() {}
func (SwapInstruction) isInstruction() {}
func (TransferRewardsInstruction) isInstruction() {}
func (DepositNotification) isInstruction() {}
func (UndelegateNotification) isInstruction() {}
func (WithdrawNotification) isInstruction() {}

func (i StakeInstruction) Target() string { return i.Contract }
func (i UndelegateInstruction) Target() string { return i.Contract }
func (i RedelegateInstruction) Target() string { return i.Contract }
func (i AddValidatorInstruction) Target() string { return i.Contract }
func (i RemoveValidatorInstruction) Target() string { return i.Contract }
func (i SetRewardWithdrawAddressInstruction) Target() string { return i.Contract }
func (i RedeemRewardsInstruction) Target() string { return i.Contract }
func (i ClaimAirdropInstruction) Target() string { return i.Contract }
func (i TransferAirdropInstruction) Target() string { return i.Contract }
func (i TransferReconciledFundsInstruction) Target() string { return i.Contract }
func (i SwapInstruction) Target() string { return i.Contract }
func (i TransferRewardsInstruction) Target() string { return i.Contract }
func (i DepositNotification) Target() string { return i.Contract }
func (i UndelegateNotification) Target() string { return i.Contract }
func (i WithdrawNotification) Target() string { return i.Contract }

func instructionEvent(kind, target string, attrs ...sdk.Attribute) sdk.Event {
	return sdk.NewEvent(
		EventTypeInstruction,
		append([]sdk.Attribute{
			sdk.NewAttribute(AttributeKeyInstruction, kind),
			sdk.NewAttribute(AttributeKeyTarget, target),
		}, attrs...)...,
	)
}

func (i StakeInstruction) Event() sdk.Event {
	return instructionEvent("stake", i.Contract,
		sdk.NewAttribute(AttributeKeyValidator, i.Validator),
		sdk.NewAttribute(sdk.AttributeKeyAmount, i.Amount.String()),
	)
}

func (i UndelegateInstruction) Event() sdk.Event {
	return instructionEvent("undelegate", i.Contract,
		sdk.NewAttribute(AttributeKeyValidator, i.Validator),
		sdk.NewAttribute(sdk.AttributeKeyAmount, i.Amount.String()),
	)
}

func (i RedelegateInstruction) Event() sdk.Event {
	return instructionEvent("redelegate", i.Contract,
		sdk.NewAttribute(AttributeKeySrcValidator, i.SrcValidator),
		sdk.NewAttribute(AttributeKeyDstValidator, i.DstValidator),
		sdk.NewAttribute(sdk.AttributeKeyAmount, i.Amount.String()),
	)
}

func (i AddValidatorInstruction) Event() sdk.Event {
	return instructionEvent("add_validator", i.Contract,
		sdk.NewAttribute(AttributeKeyValidator, i.Validator),
	)
}

func (i RemoveValidatorInstruction) Event() sdk.Event {
	return instructionEvent("remove_validator", i.Contract,
		sdk.NewAttribute(AttributeKeyValidator, i.Validator),
		sdk.NewAttribute(AttributeKeyDstValidator, i.RedelegateTo),
	)
}

func (i SetRewardWithdrawAddressInstruction) Event() sdk.Event {
	return instructionEvent("set_reward_withdraw_address", i.Contract,
		sdk.NewAttribute(AttributeKeyRewardContract, i.RewardContract),
	)
}

func (i RedeemRewardsInstruction) Event() sdk.Event {
	return instructionEvent("redeem_rewards", i.Contract,
		sdk.NewAttribute(AttributeKeyValidator, strings.Join(i.Validators, ",")),
	)
}

func (i ClaimAirdropInstruction) Event() sdk.Event {
	return instructionEvent("claim_airdrop", i.Contract,
		sdk.NewAttribute(AttributeKeyAirdropContract, i.AirdropContract),
		sdk.NewAttribute(AttributeKeyStage, strconv.FormatUint(i.Claim.Stage, 10)),
		sdk.NewAttribute(sdk.AttributeKeyAmount, i.Amount.String()),
	)
}

func (i TransferAirdropInstruction) Event() sdk.Event {
	return instructionEvent("transfer_airdrop", i.Contract,
		sdk.NewAttribute(AttributeKeyTokenContract, i.TokenContract),
		sdk.NewAttribute(sdk.AttributeKeyAmount, i.Amount.String()),
	)
}

func (i TransferReconciledFundsInstruction) Event() sdk.Event {
	return instructionEvent("transfer_reconciled_funds", i.Contract,
		sdk.NewAttribute(sdk.AttributeKeyAmount, i.Amount.String()),
	)
}

func (i SwapInstruction) Event() sdk.Event {
	return instructionEvent("swap", i.Contract)
}

func (i TransferRewardsInstruction) Event() sdk.Event {
	return instructionEvent("transfer_rewards", i.Contract,
		sdk.NewAttribute(AttributeKeyRecipient, i.RewardRecipient),
		sdk.NewAttribute(sdk.AttributeKeyAmount, i.RewardAmount.String()),
		sdk.NewAttribute(AttributeKeyProtocolFeeRecipient, i.ProtocolFeeRecipient),
		sdk.NewAttribute(AttributeKeyProtocolFee, i.ProtocolFeeAmount.String()),
	)
}

func (i DepositNotification) Event() sdk.Event {
	return instructionEvent("deposit", i.Contract,
		sdk.NewAttribute(AttributeKeyUser, i.User),
		sdk.NewAttribute(AttributeKeyPoolID, strconv.FormatUint(i.PoolID, 10)),
		sdk.NewAttribute(sdk.AttributeKeyAmount, i.Amount.String()),
		sdk.NewAttribute(AttributeKeySlashingPointer, i.Pointers.SlashingPointer.String()),
	)
}

func (i UndelegateNotification) Event() sdk.Event {
	return instructionEvent("undelegate", i.Contract,
		sdk.NewAttribute(AttributeKeyUser, i.User),
		sdk.NewAttribute(AttributeKeyPoolID, strconv.FormatUint(i.PoolID, 10)),
		sdk.NewAttribute(AttributeKeyBatchID, strconv.FormatUint(i.BatchID, 10)),
		sdk.NewAttribute(sdk.AttributeKeyAmount, i.Amount.String()),
		sdk.NewAttribute(AttributeKeySlashingPointer, i.Pointers.SlashingPointer.String()),
	)
}

func (i WithdrawNotification) Event() sdk.Event {
	return instructionEvent("withdraw_funds", i.Contract,
		sdk.NewAttribute(AttributeKeyUser, i.User),
		sdk.NewAttribute(AttributeKeyPoolID, strconv.FormatUint(i.PoolID, 10)),
		sdk.NewAttribute(AttributeKeyBatchID, strconv.FormatUint(i.BatchID, 10)),
		sdk.NewAttribute(AttributeKeyUndelegateID, strconv.FormatUint(i.UndelegateID, 10)),
		sdk.NewAttribute(AttributeKeySlashingPointer, i.BatchSlashingPointer.String()),
		sdk.NewAttribute(AttributeKeyUnbondingSlashingRatio, i.UnbondingSlashingRatio.String()),
	)
}
