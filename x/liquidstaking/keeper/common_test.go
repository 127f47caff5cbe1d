package keeper_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	tmproto "github.com/cometbft/cometbft/proto/tendermint/types"
	"github.com/stretchr/testify/require"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	dbm "github.com/cosmos/cosmos-db"

	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/initia-labs/liquidstaking/x/liquidstaking/config"
	"github.com/initia-labs/liquidstaking/x/liquidstaking/keeper"
	"github.com/initia-labs/liquidstaking/x/liquidstaking/types"
)

const (
	managerAddr   = "manager"
	delegatorAddr = "delegator"
	sccAddr       = "scc"
	userAddr      = "user"
	vaultDenom    = "uinit"
)

var genesisTime = time.Date(2020, time.April, 22, 12, 0, 0, 0, time.UTC)

// mockValidatorQuerier serves the staking view of the validator contracts.
type mockValidatorQuerier struct {
	// validators maps a validator to whether it is discoverable; unknown
	// validators are not.
	validators  map[string]bool
	delegations map[string]math.Int
	unaccounted map[string]math.Int

	err error
}

func newMockValidatorQuerier() *mockValidatorQuerier {
	return &mockValidatorQuerier{
		validators:  make(map[string]bool),
		delegations: make(map[string]math.Int),
		unaccounted: make(map[string]math.Int),
	}
}

func (q *mockValidatorQuerier) Discoverable(_ context.Context, validator string) (bool, error) {
	if q.err != nil {
		return false, q.err
	}

	return q.validators[validator], nil
}

func (q *mockValidatorQuerier) Delegation(_ context.Context, delegator, validator string) (math.Int, bool, error) {
	if q.err != nil {
		return math.Int{}, false, q.err
	}

	amount, found := q.delegations[delegator+"/"+validator]
	return amount, found, nil
}

func (q *mockValidatorQuerier) UnaccountedBaseFunds(_ context.Context, validatorContract string) (math.Int, error) {
	if q.err != nil {
		return math.Int{}, q.err
	}

	if amount, found := q.unaccounted[validatorContract]; found {
		return amount, nil
	}

	return math.ZeroInt(), nil
}

func (q *mockValidatorQuerier) setDelegation(validatorContract, validator string, amount int64) {
	q.delegations[validatorContract+"/"+validator] = math.NewInt(amount)
}

// mockBalanceQuerier serves native and token balances.
type mockBalanceQuerier struct {
	balances map[string]math.Int
	tokens   map[string]math.Int
}

func newMockBalanceQuerier() *mockBalanceQuerier {
	return &mockBalanceQuerier{
		balances: make(map[string]math.Int),
		tokens:   make(map[string]math.Int),
	}
}

func (q *mockBalanceQuerier) Balance(_ context.Context, holder, denom string) (math.Int, error) {
	if amount, found := q.balances[holder+"/"+denom]; found {
		return amount, nil
	}

	return math.ZeroInt(), nil
}

func (q *mockBalanceQuerier) TokenBalance(_ context.Context, tokenContract, holder string) (math.Int, error) {
	if amount, found := q.tokens[tokenContract+"/"+holder]; found {
		return amount, nil
	}

	return math.ZeroInt(), nil
}

type testInput struct {
	ctx sdk.Context
	k   *keeper.Keeper
	ms  types.MsgServer
	vq  *mockValidatorQuerier
	bq  *mockBalanceQuerier
}

func createTestInput(t testing.TB) testInput {
	return createTestInputWithConfig(t, config.DefaultLiquidStakingConfig())
}

func createTestInputWithConfig(t testing.TB, cfg config.LiquidStakingConfig) testInput {
	db := dbm.NewMemDB()
	keys := storetypes.NewKVStoreKeys(types.StoreKey)
	ms := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	for _, v := range keys {
		ms.MountStoreWithDB(v, storetypes.StoreTypeIAVL, db)
	}

	require.NoError(t, ms.LoadLatestVersion())

	ctx := sdk.NewContext(ms, tmproto.Header{
		Height: 1234567,
		Time:   genesisTime,
	}, false, log.NewNopLogger())

	vq := newMockValidatorQuerier()
	bq := newMockBalanceQuerier()
	k := keeper.NewKeeper(
		runtime.NewKVStoreService(keys[types.StoreKey]),
		vq, bq,
		cfg,
	)

	genState := types.NewGenesisState(types.NewConfig(
		managerAddr, vaultDenom, delegatorAddr, sccAddr,
		math.NewInt(1_000), math.NewInt(1_000_000_000),
	))
	k.InitGenesis(ctx, genState)

	return testInput{
		ctx: ctx,
		k:   k,
		ms:  keeper.NewMsgServerImpl(*k),
		vq:  vq,
		bq:  bq,
	}
}

func (in testInput) execute(sender string, funds sdk.Coins, msg types.Msg) ([]types.Instruction, error) {
	res, err := in.ms.Execute(in.ctx, &types.ExecuteRequest{
		MsgInfo: types.MsgInfo{Sender: sender, Funds: funds},
		Msg:     msg,
	})
	if err != nil {
		return nil, err
	}

	return res.Instructions, nil
}

func (in testInput) manager(t testing.TB, msg types.Msg) []types.Instruction {
	instructions, err := in.execute(managerAddr, nil, msg)
	require.NoError(t, err)
	return instructions
}

func poolMsg(name string) *types.MsgAddPool {
	return &types.MsgAddPool{
		Name:                name,
		ValidatorContract:   name + "_validators",
		RewardContract:      name + "_rewards",
		ProtocolFeeContract: "fee_collector",
		ProtocolFeePercent:  math.LegacyNewDecWithPrec(1, 1),
	}
}

// createPool adds a pool holding the given validators, all discoverable.
func (in testInput) createPool(t testing.TB, name string, validators ...string) types.Pool {
	in.manager(t, poolMsg(name))

	state, err := in.k.GetState(in.ctx)
	require.NoError(t, err)
	poolID := state.NextPoolID - 1

	for _, val := range validators {
		in.vq.validators[val] = true
		in.manager(t, &types.MsgAddValidator{PoolID: poolID, Validator: val})
	}

	pool, err := in.k.GetPool(in.ctx, poolID)
	require.NoError(t, err)
	return pool
}

// setStake sets both the tracked and the on-chain stake of each validator
// and the pool total accordingly.
func (in testInput) setStake(t testing.TB, poolID uint64, stakes map[string]int64) types.Pool {
	pool, err := in.k.GetPool(in.ctx, poolID)
	require.NoError(t, err)

	total := math.ZeroInt()
	for val, amount := range stakes {
		meta := types.NewValidatorMeta()
		meta.Staked = math.NewInt(amount)
		require.NoError(t, in.k.SetValidatorMeta(in.ctx, val, poolID, meta))
		in.vq.setDelegation(pool.ValidatorContract, val, amount)
		total = total.Add(meta.Staked)
	}

	pool.Staked = total
	require.NoError(t, in.k.SetPool(in.ctx, pool))
	return pool
}

func (in testInput) pool(t testing.TB, poolID uint64) types.Pool {
	pool, err := in.k.GetPool(in.ctx, poolID)
	require.NoError(t, err)
	return pool
}

func (in testInput) batch(t testing.TB, poolID, batchID uint64) types.UndelegationBatch {
	batch, err := in.k.GetUndelegationBatch(in.ctx, poolID, batchID)
	require.NoError(t, err)
	return batch
}

func (in testInput) meta(t testing.TB, val string, poolID uint64) types.ValidatorMeta {
	meta, err := in.k.GetValidatorMeta(in.ctx, val, poolID)
	require.NoError(t, err)
	return meta
}

func requireInvariants(t testing.TB, in testInput) {
	msg, broken := keeper.AllInvariants(*in.k)(in.ctx)
	require.False(t, broken, msg)
}

func dec(s string) math.LegacyDec {
	return math.LegacyMustNewDecFromStr(s)
}

// requireInstructions compares instructions by kind and JSON rendering, as
// decoded amounts do not share the internal layout of freshly built ones.
func requireInstructions(t testing.TB, expected, actual []types.Instruction) {
	t.Helper()

	require.Len(t, actual, len(expected))
	for i := range expected {
		require.IsType(t, expected[i], actual[i])

		want, err := json.Marshal(expected[i])
		require.NoError(t, err)
		got, err := json.Marshal(actual[i])
		require.NoError(t, err)
		require.JSONEq(t, string(want), string(got))
	}
}

func requireInt(t testing.TB, expected int64, actual math.Int) {
	t.Helper()
	require.True(t, math.NewInt(expected).Equal(actual), "expected %d, got %s", expected, actual)
}

func requireDec(t testing.TB, expected string, actual math.LegacyDec) {
	t.Helper()
	require.True(t, dec(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

var errQuerier = errors.New("querier unavailable")
