package keeper_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/initia-labs/liquidstaking/x/liquidstaking/types"
)

func Test_GenesisRoundTrip(t *testing.T) {
	in := createTestInput(t)
	x := in.createPool(t, "x", "val1", "val2")
	in.createPool(t, "y", "val3")
	in.setStake(t, x.ID, map[string]int64{"val1": 500, "val2": 200})
	closeBatches(t, in, x.ID, []int64{10}, []time.Time{genesisTime})
	registerAirdrops(t, in)

	in.manager(t, &types.MsgUpdateRewardsPointer{PoolID: x.ID, Amount: math.NewInt(70)})

	exported := in.k.ExportGenesis(in.ctx)
	require.NoError(t, types.ValidateGenesis(exported))
	require.Equal(t, uint64(2), exported.NextPoolID)
	require.Len(t, exported.Pools, 2)
	require.Len(t, exported.ValidatorMetas, 3)
	require.Len(t, exported.Batches, 3)
	require.Len(t, exported.AirdropRegistry, 2)

	bz, err := json.Marshal(exported)
	require.NoError(t, err)

	fresh := createTestInput(t)
	var imported types.GenesisState
	require.NoError(t, json.Unmarshal(bz, &imported))
	fresh.k.InitGenesis(fresh.ctx, &imported)

	reexported, err := json.Marshal(fresh.k.ExportGenesis(fresh.ctx))
	require.NoError(t, err)
	require.JSONEq(t, string(bz), string(reexported))

	// indexes are rebuilt
	poolID, err := fresh.k.ValidatorPoolIndex.Get(fresh.ctx, "val3")
	require.NoError(t, err)
	require.Equal(t, uint64(1), poolID)

	poolID, err = fresh.k.PoolsByRewardContract.Get(fresh.ctx, "x_rewards")
	require.NoError(t, err)
	require.Equal(t, x.ID, poolID)

	requireDec(t, "0.1", fresh.pool(t, x.ID).RewardsPointer)
	requireInvariants(t, fresh)

	// the next pool continues the sequence
	fresh.vq.validators["val9"] = true
	z := fresh.createPool(t, "z", "val9")
	require.Equal(t, uint64(2), z.ID)
}

func Test_ValidateGenesis(t *testing.T) {
	valid := func() *types.GenesisState {
		genState := types.NewGenesisState(types.NewConfig(
			managerAddr, vaultDenom, delegatorAddr, sccAddr,
			math.NewInt(1), math.NewInt(10),
		))
		pool := types.NewPool(0, "x", "x_validators", "x_rewards", "fee", math.LegacyZeroDec())
		pool.Validators = []string{"val1"}
		genState.NextPoolID = 1
		genState.Pools = []types.Pool{pool}
		genState.ValidatorMetas = []types.ValidatorMetaEntry{{Validator: "val1", PoolID: 0, Meta: types.NewValidatorMeta()}}
		genState.Batches = []types.UndelegationBatch{
			types.NewUndelegationBatch(0, pool.CurrentUndelegationBatchID, genesisTime, pool.SlashingPointer),
		}
		genState.AirdropRegistry = []types.AirdropRegistryEntry{{Denom: "uair", Info: types.AirdropRegistryInfo{AirdropContract: "a", TokenContract: "t"}}}
		return genState
	}

	require.NoError(t, types.ValidateGenesis(valid()))

	for name, mutate := range map[string]func(*types.GenesisState){
		"pool id not below next":  func(g *types.GenesisState) { g.NextPoolID = 0 },
		"shared validator":        func(g *types.GenesisState) { g.Pools = append(g.Pools, withID(g.Pools[0], 1)); g.NextPoolID = 2 },
		"meta of unknown pool":    func(g *types.GenesisState) { g.ValidatorMetas[0].PoolID = 3 },
		"meta of foreign val":     func(g *types.GenesisState) { g.ValidatorMetas[0].Validator = "val2" },
		"missing open batch":      func(g *types.GenesisState) { g.Batches = nil },
		"upper case airdrop":      func(g *types.GenesisState) { g.AirdropRegistry[0].Denom = "UAIR" },
		"slashing pointer over 1": func(g *types.GenesisState) { g.Pools[0].SlashingPointer = math.LegacyNewDec(2) },
		"invalid vault denom":     func(g *types.GenesisState) { g.Config.VaultDenom = "!" },
		"active wiped pool":       func(g *types.GenesisState) { g.Pools[0].SlashingPointer = math.LegacyZeroDec() },
		"negative airdrop pointer": func(g *types.GenesisState) {
			g.Pools[0].AirdropsPointer = sdk.DecCoins{{Denom: "uair", Amount: math.LegacyNewDec(-1)}}
		},
	} {
		t.Run(name, func(t *testing.T) {
			genState := valid()
			mutate(genState)
			require.Error(t, types.ValidateGenesis(genState))
		})
	}
}

func withID(pool types.Pool, id uint64) types.Pool {
	pool.ID = id
	pool.ValidatorContract += "_2"
	pool.RewardContract += "_2"
	return pool
}
