package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cosmossdk.io/math"

	"github.com/initia-labs/liquidstaking/x/liquidstaking/types"
)

const (
	flagManager           = "manager"
	flagVaultDenom        = "vault-denom"
	flagDelegatorContract = "delegator-contract"
	flagSccContract       = "scc-contract"
	flagMinDeposit        = "min-deposit"
	flagMaxDeposit        = "max-deposit"
)

func genesisCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genesis",
		Short: "Build and check liquidstaking genesis files",
	}

	cmd.AddCommand(defaultGenesisCommand(), validateGenesisCommand())
	return cmd
}

func defaultGenesisCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "default",
		Short: "Print a genesis state with the given collaborators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			manager, _ := flags.GetString(flagManager)
			vaultDenom, _ := flags.GetString(flagVaultDenom)
			delegator, _ := flags.GetString(flagDelegatorContract)
			scc, _ := flags.GetString(flagSccContract)
			minStr, _ := flags.GetString(flagMinDeposit)
			maxStr, _ := flags.GetString(flagMaxDeposit)

			minDeposit, ok := math.NewIntFromString(minStr)
			if !ok {
				return fmt.Errorf("invalid min deposit %q", minStr)
			}
			maxDeposit, ok := math.NewIntFromString(maxStr)
			if !ok {
				return fmt.Errorf("invalid max deposit %q", maxStr)
			}

			genState := types.NewGenesisState(types.NewConfig(manager, vaultDenom, delegator, scc, minDeposit, maxDeposit))
			if err := types.ValidateGenesis(genState); err != nil {
				return err
			}

			return printJSON(cmd, genState)
		},
	}

	cmd.Flags().String(flagManager, "", "Address allowed to run manager operations")
	cmd.Flags().String(flagVaultDenom, types.DefaultVaultDenom, "Denom accepted for deposits")
	cmd.Flags().String(flagDelegatorContract, "", "Address of the delegator contract")
	cmd.Flags().String(flagSccContract, "", "Address of the rewards sink")
	cmd.Flags().String(flagMinDeposit, types.DefaultMinDeposit.String(), "Smallest accepted deposit")
	cmd.Flags().String(flagMaxDeposit, types.DefaultMaxDeposit.String(), "Largest accepted deposit")

	return cmd
}

func validateGenesisCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [genesis-file]",
		Short: "Validate a liquidstaking genesis file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			genState, err := readGenesis(args[0])
			if err != nil {
				return err
			}

			if err := types.ValidateGenesis(genState); err != nil {
				return fmt.Errorf("invalid genesis %s: %w", args[0], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "genesis %s is valid: %d pools, next pool id %d\n",
				args[0], len(genState.Pools), genState.NextPoolID)
			return nil
		},
	}
}

func readGenesis(path string) (*types.GenesisState, error) {
	var genState types.GenesisState
	if err := readJSON(path, &genState); err != nil {
		return nil, err
	}

	return &genState, nil
}

func readJSON(path string, v any) error {
	bz, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(bz, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return err
}
