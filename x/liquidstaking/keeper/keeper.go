package keeper

import (
	"context"

	"cosmossdk.io/collections"
	corestoretypes "cosmossdk.io/core/store"
	"cosmossdk.io/log"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/initia-labs/liquidstaking/x/liquidstaking/config"
	"github.com/initia-labs/liquidstaking/x/liquidstaking/types"
)

// keeper of the liquidstaking store
type Keeper struct {
	storeService corestoretypes.KVStoreService
	config       config.LiquidStakingConfig

	validatorQuerier types.ValidatorQuerier
	balanceQuerier   types.BalanceQuerier

	Schema collections.Schema

	Config     collections.Item[types.Config]
	NextPoolID collections.Sequence

	Pools                    collections.Map[uint64, types.Pool]
	PoolsByValidatorContract collections.Map[string, uint64]
	PoolsByRewardContract    collections.Map[string, uint64]

	ValidatorMetas     collections.Map[collections.Pair[string, uint64], types.ValidatorMeta] // validator, poolID
	ValidatorPoolIndex collections.Map[string, uint64]                                      // validator -> poolID

	UndelegationBatches collections.Map[collections.Pair[uint64, uint64], types.UndelegationBatch] // poolID, batchID

	AirdropRegistry collections.Map[string, types.AirdropRegistryInfo]
}

// NewKeeper creates a new liquidstaking Keeper instance
func NewKeeper(
	storeService corestoretypes.KVStoreService,
	vq types.ValidatorQuerier,
	bq types.BalanceQuerier,
	cfg config.LiquidStakingConfig,
) *Keeper {
	sb := collections.NewSchemaBuilder(storeService)

	k := &Keeper{
		storeService:     storeService,
		config:           cfg,
		validatorQuerier: vq,
		balanceQuerier:   bq,

		Config:     collections.NewItem(sb, types.ConfigKey, "config", types.JSONValue[types.Config]()),
		NextPoolID: collections.NewSequence(sb, types.NextPoolIDKey, "next_pool_id"),

		Pools:                    collections.NewMap(sb, types.PoolsPrefix, "pools", collections.Uint64Key, types.JSONValue[types.Pool]()),
		PoolsByValidatorContract: collections.NewMap(sb, types.PoolsByValidatorContract, "pools_by_validator_contract", collections.StringKey, collections.Uint64Value),
		PoolsByRewardContract:    collections.NewMap(sb, types.PoolsByRewardContract, "pools_by_reward_contract", collections.StringKey, collections.Uint64Value),

		ValidatorMetas:     collections.NewMap(sb, types.ValidatorMetasPrefix, "validator_metas", collections.PairKeyCodec(collections.StringKey, collections.Uint64Key), types.JSONValue[types.ValidatorMeta]()),
		ValidatorPoolIndex: collections.NewMap(sb, types.ValidatorPoolIndexPrefix, "validator_pool_index", collections.StringKey, collections.Uint64Value),

		UndelegationBatches: collections.NewMap(sb, types.UndelegationBatchesPrefix, "undelegation_batches", collections.PairKeyCodec(collections.Uint64Key, collections.Uint64Key), types.JSONValue[types.UndelegationBatch]()),

		AirdropRegistry: collections.NewMap(sb, types.AirdropRegistryPrefix, "airdrop_registry", collections.StringKey, types.JSONValue[types.AirdropRegistryInfo]()),
	}

	schema, err := sb.Build()
	if err != nil {
		panic(err)
	}
	k.Schema = schema

	return k
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.Logger().With("module", "x/"+types.ModuleName)
}

// GetConfig returns the module config.
func (k Keeper) GetConfig(ctx context.Context) (types.Config, error) {
	return k.Config.Get(ctx)
}

// GetState returns the module counters.
func (k Keeper) GetState(ctx context.Context) (types.State, error) {
	nextPoolID, err := k.NextPoolID.Peek(ctx)
	if err != nil {
		return types.State{}, err
	}

	return types.State{NextPoolID: nextPoolID}, nil
}
