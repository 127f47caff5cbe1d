package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/initia-labs/liquidstaking/x/liquidstaking/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func defaultGenesis(t *testing.T, dir string) string {
	t.Helper()
	out, err := runCmd(t, "genesis", "default",
		"--manager", "manager",
		"--vault-denom", "uinit",
		"--delegator-contract", "delegator",
		"--scc-contract", "scc",
		"--min-deposit", "10",
	)
	require.NoError(t, err)
	return writeFile(t, dir, "genesis.json", out)
}

func Test_GenesisCommands(t *testing.T) {
	dir := t.TempDir()
	path := defaultGenesis(t, dir)

	var genState types.GenesisState
	bz, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(bz, &genState))
	require.Equal(t, "manager", genState.Config.Manager)
	require.Equal(t, "10", genState.Config.MinDeposit.String())

	out, err := runCmd(t, "genesis", "validate", path)
	require.NoError(t, err)
	require.Contains(t, out, "is valid: 0 pools")

	bad := writeFile(t, dir, "bad.json", `{"config":{"vault_denom":"1"}}`)
	_, err = runCmd(t, "genesis", "validate", bad)
	require.Error(t, err)

	_, err = runCmd(t, "genesis", "default", "--min-deposit", "ten")
	require.Error(t, err)
}

func Test_ConfigCommand(t *testing.T) {
	out, err := runCmd(t, "config")
	require.NoError(t, err)
	require.Contains(t, out, `query-max-page-limit = "100"`)
	require.Contains(t, out, "pool-gauges = true")

	out, err = runCmd(t, "config", "--liquidstaking.query-max-page-limit", "5", "--liquidstaking.pool-gauges=false")
	require.NoError(t, err)
	require.Contains(t, out, `query-max-page-limit = "5"`)
	require.Contains(t, out, "pool-gauges = false")
}

const replayFixture = `{
  "time": "2024-01-01T00:00:00Z",
  "validators": {"val1": true, "val2": true},
  "delegations": {"x_validators": {"val1": "0", "val2": "0"}}
}`

const replaySteps = `[
  {"sender": "manager", "type": "add_pool", "msg": {
    "name": "x", "validator_contract": "x_validators", "reward_contract": "x_rewards",
    "protocol_fee_contract": "fee", "protocol_fee_percent": "0.100000000000000000"}},
  {"sender": "manager", "type": "add_validator", "msg": {"pool_id": 0, "validator": "val1"}},
  {"sender": "manager", "type": "add_validator", "msg": {"pool_id": 0, "validator": "val2"}},
  {"sender": "user", "funds": "500uinit", "type": "deposit", "msg": {"pool_id": 0}},
  {"sender": "user", "type": "add_validator", "msg": {"pool_id": 0, "validator": "val3"}},
  {"sender": "user", "type": "no_such_msg"}
]`

func Test_ReplayCommand(t *testing.T) {
	dir := t.TempDir()
	genesis := defaultGenesis(t, dir)
	fixture := writeFile(t, dir, "fixture.json", replayFixture)
	steps := writeFile(t, dir, "steps.json", replaySteps)

	out, err := runCmd(t, "replay", genesis, fixture, steps, "--export", "--log-level", "error")
	require.NoError(t, err)

	var res struct {
		Results []struct {
			Type         string `json:"type"`
			Error        string `json:"error"`
			Instructions []struct {
				Kind   string `json:"kind"`
				Target string `json:"target"`
			} `json:"instructions"`
		} `json:"results"`
		Genesis *types.GenesisState `json:"genesis"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Results, 6)

	require.Empty(t, res.Results[0].Error)
	require.Equal(t, "x_validators", res.Results[0].Instructions[0].Target)

	deposit := res.Results[3]
	require.Empty(t, deposit.Error)
	require.Len(t, deposit.Instructions, 2)
	require.Equal(t, "delegator", deposit.Instructions[0].Target)
	require.Equal(t, "stake", deposit.Instructions[1].Kind)

	require.Contains(t, res.Results[4].Error, types.ErrUnauthorized.Error())
	require.Contains(t, res.Results[5].Error, types.ErrUnknownMsg.Error())

	require.NotNil(t, res.Genesis)
	require.Len(t, res.Genesis.Pools, 1)
	require.Equal(t, "500", res.Genesis.Pools[0].Staked.String())
}

func Test_DecodeMsg(t *testing.T) {
	msg, err := decodeMsg("queue_undelegate", json.RawMessage(`{"pool_id": 3, "amount": "12"}`))
	require.NoError(t, err)
	require.Equal(t, uint64(3), msg.(*types.MsgQueueUndelegate).PoolID)

	_, err = decodeMsg("queue_undelegate", json.RawMessage(`{"pool_id": "x"}`))
	require.Error(t, err)

	_, err = decodeMsg("unknown", nil)
	require.ErrorIs(t, err, types.ErrUnknownMsg)
}
