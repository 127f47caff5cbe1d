package main

import (
	"encoding/json"
	"fmt"
	"time"

	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	dbm "github.com/cosmos/cosmos-db"

	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"

	lsconfig "github.com/initia-labs/liquidstaking/x/liquidstaking/config"
	"github.com/initia-labs/liquidstaking/x/liquidstaking/keeper"
	"github.com/initia-labs/liquidstaking/x/liquidstaking/types"
)

const flagExport = "export"

// replayStep is a single message of a replay script.
type replayStep struct {
	Sender string          `json:"sender"`
	Funds  string          `json:"funds,omitempty"`
	Type   string          `json:"type"`
	Msg    json.RawMessage `json:"msg,omitempty"`

	// AdvanceSeconds moves the block time forward before the step runs.
	AdvanceSeconds uint64 `json:"advance_seconds,omitempty"`
	// Delegations patches the chain fixture before the step runs.
	Delegations map[string]map[string]math.Int `json:"delegations,omitempty"`
}

type replayResult struct {
	Step         int                   `json:"step"`
	Type         string                `json:"type"`
	Instructions []renderedInstruction `json:"instructions,omitempty"`
	Error        string                `json:"error,omitempty"`
}

type renderedInstruction struct {
	Kind   string            `json:"kind"`
	Target string            `json:"target"`
	Body   types.Instruction `json:"body"`
}

type replayOutput struct {
	Results []replayResult       `json:"results"`
	Genesis *types.GenesisState `json:"genesis,omitempty"`
}

func replayCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay [genesis-file] [fixture-file] [steps-file]",
		Short: "Execute a script of messages against a genesis state and print the instructions",
		Long: `Execute a script of messages against a genesis state on an in-memory store.

The fixture file describes the chain the module queries: block time, validators,
delegations and balances. Each step names a message type and may advance the
block time or patch delegations before it runs. Failed steps are reported and
their writes discarded; the replay continues with the next step.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd, v)
			if err != nil {
				return err
			}

			genState, err := readGenesis(args[0])
			if err != nil {
				return err
			}
			if err := types.ValidateGenesis(genState); err != nil {
				return fmt.Errorf("invalid genesis %s: %w", args[0], err)
			}

			fixture, err := readFixture(args[1])
			if err != nil {
				return err
			}

			var steps []replayStep
			if err := readJSON(args[2], &steps); err != nil {
				return err
			}

			env, err := newReplayEnv(logger, lsconfig.GetConfig(v), genState, fixture)
			if err != nil {
				return err
			}

			out := replayOutput{Results: env.run(steps)}
			if export, _ := cmd.Flags().GetBool(flagExport); export {
				out.Genesis = env.keeper.ExportGenesis(env.ctx)
			}

			return printJSON(cmd, out)
		},
	}

	cmd.Flags().Bool(flagExport, false, "Append the resulting genesis state to the output")
	lsconfig.AddConfigFlags(cmd)

	return cmd
}

type replayEnv struct {
	logger  log.Logger
	ctx     sdk.Context
	keeper  *keeper.Keeper
	server  types.MsgServer
	fixture *chainFixture
}

func newReplayEnv(logger log.Logger, cfg lsconfig.LiquidStakingConfig, genState *types.GenesisState, fixture *chainFixture) (*replayEnv, error) {
	db := dbm.NewMemDB()
	key := storetypes.NewKVStoreKey(types.StoreKey)
	ms := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	ms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, db)
	if err := ms.LoadLatestVersion(); err != nil {
		return nil, err
	}

	ctx := sdk.NewContext(ms, cmtproto.Header{Height: 1, Time: fixture.Time}, false, logger)
	k := keeper.NewKeeper(runtime.NewKVStoreService(key), fixture, fixture, cfg)
	k.InitGenesis(ctx, genState)

	return &replayEnv{
		logger:  logger.With("module", "replay"),
		ctx:     ctx,
		keeper:  k,
		server:  keeper.NewMsgServerImpl(*k),
		fixture: fixture,
	}, nil
}

func (env *replayEnv) run(steps []replayStep) []replayResult {
	results := make([]replayResult, 0, len(steps))
	for i, step := range steps {
		result := replayResult{Step: i, Type: step.Type}

		instructions, err := env.apply(step)
		if err != nil {
			env.logger.Info("step failed", "step", i, "type", step.Type, "err", err)
			result.Error = err.Error()
		} else {
			env.logger.Debug("step executed", "step", i, "type", step.Type, "instructions", len(instructions))
			result.Instructions = renderInstructions(instructions)
		}

		if msg, broken := keeper.AllInvariants(*env.keeper)(env.ctx); broken {
			env.logger.Error("invariant broken", "step", i, "msg", msg)
			result.Error = msg
		}

		results = append(results, result)
	}

	return results
}

func (env *replayEnv) apply(step replayStep) ([]types.Instruction, error) {
	env.ctx = env.ctx.
		WithBlockHeight(env.ctx.BlockHeight() + 1).
		WithBlockTime(env.ctx.BlockTime().Add(time.Duration(step.AdvanceSeconds) * time.Second))
	env.fixture.patchDelegations(step.Delegations)

	msg, err := decodeMsg(step.Type, step.Msg)
	if err != nil {
		return nil, err
	}

	funds, err := sdk.ParseCoinsNormalized(step.Funds)
	if err != nil {
		return nil, err
	}

	res, err := env.server.Execute(env.ctx, &types.ExecuteRequest{
		MsgInfo: types.MsgInfo{Sender: step.Sender, Funds: funds},
		Msg:     msg,
	})
	if err != nil {
		return nil, err
	}

	return res.Instructions, nil
}

// decodeMsg resolves a message by its type name and decodes its body.
func decodeMsg(msgType string, body json.RawMessage) (types.Msg, error) {
	for _, msg := range types.AllMsgs() {
		if msg.Type() != msgType {
			continue
		}

		if len(body) > 0 {
			if err := json.Unmarshal(body, msg); err != nil {
				return nil, fmt.Errorf("failed to decode %s: %w", msgType, err)
			}
		}

		return msg, nil
	}

	return nil, fmt.Errorf("%w: %s", types.ErrUnknownMsg, msgType)
}

func renderInstructions(instructions []types.Instruction) []renderedInstruction {
	rendered := make([]renderedInstruction, 0, len(instructions))
	for _, instruction := range instructions {
		kind := ""
		for _, attr := range instruction.Event().Attributes {
			if attr.Key == types.AttributeKeyInstruction {
				kind = attr.Value
				break
			}
		}

		rendered = append(rendered, renderedInstruction{
			Kind:   kind,
			Target: instruction.Target(),
			Body:   instruction,
		})
	}

	return rendered
}
