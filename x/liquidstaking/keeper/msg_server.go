package keeper

import (
	"context"
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"

	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/initia-labs/liquidstaking/x/liquidstaking/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the liquidstaking MsgServer
// interface for the provided Keeper.
func NewMsgServerImpl(k Keeper) types.MsgServer {
	return &msgServer{Keeper: k}
}

var _ types.MsgServer = msgServer{}

// Execute runs a single message against a cached context. State changes and
// events are committed only if the message succeeds. The returned
// instructions must be delivered in order.
func (ms msgServer) Execute(ctx context.Context, req *types.ExecuteRequest) (*types.ExecuteResponse, error) {
	if req == nil || req.Msg == nil {
		return nil, errorsmod.Wrap(types.ErrUnknownMsg, "empty request")
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cacheCtx, commit := sdkCtx.CacheContext()

	instructions, err := ms.dispatch(cacheCtx, req.MsgInfo, req.Msg)
	if err != nil {
		return nil, err
	}

	events := make(sdk.Events, 0, len(instructions)+1)
	events = append(events, sdk.NewEvent(
		sdk.EventTypeMessage,
		sdk.NewAttribute(sdk.AttributeKeyModule, types.AttributeValueCategory),
		sdk.NewAttribute(sdk.AttributeKeyAction, req.Msg.Type()),
		sdk.NewAttribute(sdk.AttributeKeySender, req.Sender),
	))
	for _, instruction := range instructions {
		events = append(events, instruction.Event())
	}
	cacheCtx.EventManager().EmitEvents(events)

	commit()

	telemetry.IncrCounter(1, types.ModuleName, req.Msg.Type())

	return &types.ExecuteResponse{Instructions: instructions}, nil
}

func (ms msgServer) dispatch(ctx sdk.Context, info types.MsgInfo, msg types.Msg) ([]types.Instruction, error) {
	coin, err := ms.checkSender(ctx, info, msg)
	if err != nil {
		return nil, err
	}

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	switch msg := msg.(type) {
	case *types.MsgAddPool:
		return ms.addPool(ctx, msg)
	case *types.MsgAddValidator:
		return ms.addValidator(ctx, msg)
	case *types.MsgRemoveValidator:
		return ms.removeValidator(ctx, msg)
	case *types.MsgRebalancePool:
		return ms.rebalancePool(ctx, msg)
	case *types.MsgDeposit:
		return ms.deposit(ctx, info.Sender, coin, msg)
	case *types.MsgRedeemRewards:
		return ms.redeemRewards(ctx, msg)
	case *types.MsgSwap:
		return ms.swap(ctx, msg)
	case *types.MsgSendRewardsToScc:
		return ms.sendRewardsToScc(ctx, msg)
	case *types.MsgUpdateRewardsPointer:
		return ms.updateRewardsPointer(ctx, msg)
	case *types.MsgQueueUndelegate:
		return ms.queueUndelegate(ctx, info.Sender, msg)
	case *types.MsgUndelegate:
		return ms.undelegate(ctx, msg)
	case *types.MsgReconcileFunds:
		return ms.reconcileFunds(ctx, msg)
	case *types.MsgWithdrawFundsToWallet:
		return ms.withdrawFundsToWallet(ctx, info.Sender, msg)
	case *types.MsgClaimAirdrops:
		return ms.claimAirdrops(ctx, msg)
	case *types.MsgUpdateAirdropPointers:
		return ms.updateAirdropPointers(ctx, msg)
	case *types.MsgUpdatePoolMetadata:
		return ms.updatePoolMetadata(ctx, msg)
	case *types.MsgUpdateConfig:
		return ms.updateConfig(ctx, msg)
	case *types.MsgUpdateAirdropRegistry:
		return ms.updateAirdropRegistry(ctx, msg)
	default:
		return nil, errorsmod.Wrapf(types.ErrUnknownMsg, "%T", msg)
	}
}

// isPermissionless returns true for the messages any user may send.
func isPermissionless(msg types.Msg) bool {
	switch msg.(type) {
	case *types.MsgDeposit, *types.MsgQueueUndelegate, *types.MsgWithdrawFundsToWallet:
		return true
	default:
		return false
	}
}

// checkSender enforces the authorization and funds policy of msg. Deposits
// must carry exactly one coin of the vault denom, which is returned. Every
// other message must carry no funds.
func (ms msgServer) checkSender(ctx context.Context, info types.MsgInfo, msg types.Msg) (sdk.Coin, error) {
	config, err := ms.GetConfig(ctx)
	if err != nil {
		return sdk.Coin{}, err
	}

	if !isPermissionless(msg) && !config.IsManager(info.Sender) {
		return sdk.Coin{}, errorsmod.Wrapf(types.ErrUnauthorized, "%s is not the manager", info.Sender)
	}

	if _, ok := msg.(*types.MsgDeposit); !ok {
		if !info.Funds.IsZero() {
			return sdk.Coin{}, errorsmod.Wrap(types.ErrFundsNotExpected, info.Funds.String())
		}

		return sdk.Coin{}, nil
	}

	switch {
	case info.Funds.IsZero():
		return sdk.Coin{}, types.ErrNoFunds
	case len(info.Funds) > 1:
		return sdk.Coin{}, errorsmod.Wrap(types.ErrMultipleFunds, info.Funds.String())
	case info.Funds[0].Denom != config.VaultDenom:
		return sdk.Coin{}, errorsmod.Wrapf(types.ErrInvalidDenom, "expected %s, got %s", config.VaultDenom, info.Funds[0].Denom)
	}

	return info.Funds[0], nil
}

func poolIDAttribute(poolID uint64) sdk.Attribute {
	return sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10))
}

func poolIDsAttribute(poolIDs []uint64) sdk.Attribute {
	ids := make([]string, len(poolIDs))
	for i, id := range poolIDs {
		ids[i] = strconv.FormatUint(id, 10)
	}

	return sdk.NewAttribute(types.AttributeKeyPoolID, strings.Join(ids, ","))
}

func (ms msgServer) addPool(ctx sdk.Context, msg *types.MsgAddPool) ([]types.Instruction, error) {
	pool, instructions, err := ms.AddPool(ctx, msg)
	if err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAddPool,
			poolIDAttribute(pool.ID),
			sdk.NewAttribute(types.AttributeKeyName, pool.Name),
		),
	)

	return instructions, nil
}

func (ms msgServer) addValidator(ctx sdk.Context, msg *types.MsgAddValidator) ([]types.Instruction, error) {
	instructions, err := ms.AddValidator(ctx, msg)
	if err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAddValidator,
			poolIDAttribute(msg.PoolID),
			sdk.NewAttribute(types.AttributeKeyValidator, msg.Validator),
		),
	)

	return instructions, nil
}

func (ms msgServer) removeValidator(ctx sdk.Context, msg *types.MsgRemoveValidator) ([]types.Instruction, error) {
	instructions, err := ms.RemoveValidator(ctx, msg)
	if err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRemoveValidator,
			poolIDAttribute(msg.PoolID),
			sdk.NewAttribute(types.AttributeKeyValidator, msg.Validator),
			sdk.NewAttribute(types.AttributeKeyDstValidator, msg.RedelegateTo),
		),
	)

	return instructions, nil
}

func (ms msgServer) rebalancePool(ctx sdk.Context, msg *types.MsgRebalancePool) ([]types.Instruction, error) {
	instructions, err := ms.RebalancePool(ctx, msg)
	if err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRebalancePool,
			poolIDAttribute(msg.PoolID),
			sdk.NewAttribute(types.AttributeKeySrcValidator, msg.Validator),
			sdk.NewAttribute(types.AttributeKeyDstValidator, msg.RedelegateTo),
			sdk.NewAttribute(sdk.AttributeKeyAmount, msg.Amount.String()),
		),
	)

	return instructions, nil
}

func (ms msgServer) deposit(ctx sdk.Context, sender string, coin sdk.Coin, msg *types.MsgDeposit) ([]types.Instruction, error) {
	instructions, err := ms.Deposit(ctx, sender, msg.PoolID, coin)
	if err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeDeposit,
			poolIDAttribute(msg.PoolID),
			sdk.NewAttribute(types.AttributeKeyUser, sender),
			sdk.NewAttribute(sdk.AttributeKeyAmount, coin.String()),
		),
	)

	return instructions, nil
}

func (ms msgServer) redeemRewards(ctx sdk.Context, msg *types.MsgRedeemRewards) ([]types.Instruction, error) {
	instructions, err := ms.RedeemRewards(ctx, msg.PoolIDs)
	if err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(types.EventTypeRedeemRewards, poolIDsAttribute(msg.PoolIDs)),
	)

	return instructions, nil
}

func (ms msgServer) swap(ctx sdk.Context, msg *types.MsgSwap) ([]types.Instruction, error) {
	instructions, err := ms.Swap(ctx, msg.PoolIDs)
	if err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(types.EventTypeSwap, poolIDsAttribute(msg.PoolIDs)),
	)

	return instructions, nil
}

func (ms msgServer) sendRewardsToScc(ctx sdk.Context, msg *types.MsgSendRewardsToScc) ([]types.Instruction, error) {
	instructions, err := ms.SendRewardsToScc(ctx, msg.PoolIDs)
	if err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(types.EventTypeSendRewardsToScc, poolIDsAttribute(msg.PoolIDs)),
	)

	return instructions, nil
}

func (ms msgServer) updateRewardsPointer(ctx sdk.Context, msg *types.MsgUpdateRewardsPointer) ([]types.Instruction, error) {
	pool, err := ms.UpdateRewardsPointer(ctx, msg.PoolID, msg.Amount)
	if err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeUpdateRewardsPointer,
			poolIDAttribute(pool.ID),
			sdk.NewAttribute(sdk.AttributeKeyAmount, msg.Amount.String()),
		),
	)

	return nil, nil
}

func (ms msgServer) queueUndelegate(ctx sdk.Context, sender string, msg *types.MsgQueueUndelegate) ([]types.Instruction, error) {
	instructions, err := ms.QueueUndelegate(ctx, sender, msg.PoolID, msg.Amount)
	if err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeQueueUndelegate,
			poolIDAttribute(msg.PoolID),
			sdk.NewAttribute(types.AttributeKeyUser, sender),
			sdk.NewAttribute(sdk.AttributeKeyAmount, msg.Amount.String()),
		),
	)

	return instructions, nil
}

func (ms msgServer) undelegate(ctx sdk.Context, msg *types.MsgUndelegate) ([]types.Instruction, error) {
	amount, instructions, err := ms.Undelegate(ctx, msg.PoolID)
	if err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeUndelegation,
			poolIDAttribute(msg.PoolID),
			sdk.NewAttribute(sdk.AttributeKeyAmount, amount.String()),
		),
	)

	return instructions, nil
}

func (ms msgServer) reconcileFunds(ctx sdk.Context, msg *types.MsgReconcileFunds) ([]types.Instruction, error) {
	from, to, instructions, err := ms.ReconcileFunds(ctx, msg.PoolID)
	if err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeReconcileFunds,
			poolIDAttribute(msg.PoolID),
			sdk.NewAttribute(types.AttributeKeyFromBatchID, strconv.FormatUint(from, 10)),
			sdk.NewAttribute(types.AttributeKeyToBatchID, strconv.FormatUint(to, 10)),
		),
	)

	return instructions, nil
}

func (ms msgServer) withdrawFundsToWallet(ctx sdk.Context, sender string, msg *types.MsgWithdrawFundsToWallet) ([]types.Instruction, error) {
	instructions, err := ms.WithdrawFundsToWallet(ctx, sender, msg)
	if err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeWithdrawFunds,
			poolIDAttribute(msg.PoolID),
			sdk.NewAttribute(types.AttributeKeyBatchID, strconv.FormatUint(msg.BatchID, 10)),
			sdk.NewAttribute(types.AttributeKeyUser, sender),
		),
	)

	return instructions, nil
}

func (ms msgServer) claimAirdrops(ctx sdk.Context, msg *types.MsgClaimAirdrops) ([]types.Instruction, error) {
	instructions, err := ms.ClaimAirdrops(ctx, msg.Rates)
	if err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(types.EventTypeClaimAirdrops))

	return instructions, nil
}

func (ms msgServer) updateAirdropPointers(ctx sdk.Context, msg *types.MsgUpdateAirdropPointers) ([]types.Instruction, error) {
	instructions, err := ms.UpdateAirdropPointers(ctx, msg.Transfers)
	if err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(types.EventTypeUpdateAirdropPointers))

	return instructions, nil
}

func (ms msgServer) updatePoolMetadata(ctx sdk.Context, msg *types.MsgUpdatePoolMetadata) ([]types.Instruction, error) {
	pool, err := ms.UpdatePoolMetadata(ctx, msg)
	if err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeUpdatePoolMetadata,
			poolIDAttribute(pool.ID),
		),
	)

	return nil, nil
}

func (ms msgServer) updateConfig(ctx sdk.Context, msg *types.MsgUpdateConfig) ([]types.Instruction, error) {
	if _, err := ms.UpdateConfig(ctx, msg); err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(types.EventTypeUpdateConfig))

	return nil, nil
}

func (ms msgServer) updateAirdropRegistry(ctx sdk.Context, msg *types.MsgUpdateAirdropRegistry) ([]types.Instruction, error) {
	if err := ms.UpdateAirdropRegistry(ctx, msg); err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeUpdateAirdropRegistry,
			sdk.NewAttribute(types.AttributeKeyDenom, types.AirdropDenom(msg.Denom)),
			sdk.NewAttribute(types.AttributeKeyAirdropContract, msg.AirdropContract),
			sdk.NewAttribute(types.AttributeKeyTokenContract, msg.TokenContract),
		),
	)

	return nil, nil
}
