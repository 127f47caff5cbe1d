package types

// liquidstaking module event types
const (
	EventTypeAddPool               = "add_pool"
	EventTypeAddValidator          = "add_validator"
	EventTypeRemoveValidator       = "remove_validator"
	EventTypeRebalancePool         = "rebalance_pool"
	EventTypeDeposit               = "deposit"
	EventTypeRedeemRewards         = "redeem_rewards"
	EventTypeSwap                  = "swap"
	EventTypeSendRewardsToScc      = "send_rewards_to_scc"
	EventTypeUpdateRewardsPointer  = "update_rewards_pointer"
	EventTypeQueueUndelegate       = "queue_undelegate"
	EventTypeUndelegation          = "undelegation"
	EventTypeReconcileFunds        = "reconcile_funds"
	EventTypeWithdrawFunds         = "withdraw_funds"
	EventTypeClaimAirdrops         = "claim_airdrops"
	EventTypeUpdateAirdropPointers = "update_airdrop_pointers"
	EventTypeUpdatePoolMetadata    = "update_pool_metadata"
	EventTypeUpdateConfig          = "update_config"
	EventTypeUpdateAirdropRegistry = "update_airdrop_registry"
	EventTypeSlashing              = "slashing"
	EventTypeInstruction           = "instruction"

	AttributeKeyPoolID                 = "pool_id"
	AttributeKeyBatchID                = "batch_id"
	AttributeKeyUndelegateID           = "undelegate_id"
	AttributeKeyName                   = "name"
	AttributeKeyValidator              = "validator"
	AttributeKeySrcValidator           = "source_validator"
	AttributeKeyDstValidator           = "destination_validator"
	AttributeKeyUser                   = "user"
	AttributeKeyRecipient              = "recipient"
	AttributeKeyRewardContract         = "reward_contract"
	AttributeKeyAirdropContract        = "airdrop_contract"
	AttributeKeyTokenContract          = "token_contract"
	AttributeKeyDenom                  = "denom"
	AttributeKeyStage                  = "stage"
	AttributeKeyProtocolFee            = "protocol_fee"
	AttributeKeyProtocolFeeRecipient   = "protocol_fee_recipient"
	AttributeKeySlashingPointer        = "slashing_pointer"
	AttributeKeyUnbondingSlashingRatio = "unbonding_slashing_ratio"
	AttributeKeySlashed                = "slashed"
	AttributeKeyFromBatchID            = "from_batch_id"
	AttributeKeyToBatchID              = "to_batch_id"
	AttributeKeyInstruction            = "instruction"
	AttributeKeyTarget                 = "target"
	AttributeValueCategory             = ModuleName
)
