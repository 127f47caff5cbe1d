package liquidstaking_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/initia-labs/liquidstaking/x/liquidstaking"
	"github.com/initia-labs/liquidstaking/x/liquidstaking/types"
)

func Test_DefaultGenesis(t *testing.T) {
	am := liquidstaking.NewAppModule(nil)
	bz := am.DefaultGenesis(nil)
	require.NoError(t, am.ValidateGenesis(nil, nil, bz))

	var genState types.GenesisState
	require.NoError(t, json.Unmarshal(bz, &genState))
	require.Equal(t, types.DefaultVaultDenom, genState.Config.VaultDenom)
	require.Empty(t, genState.Pools)

	require.Error(t, am.ValidateGenesis(nil, nil, json.RawMessage(`{"config":{"vault_denom":"!"}}`)))
	require.Error(t, am.ValidateGenesis(nil, nil, json.RawMessage(`not json`)))
}
