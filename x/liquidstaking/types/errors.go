package types

import (
	errorsmod "cosmossdk.io/errors"
)

// x/liquidstaking module sentinel errors
var (
	ErrUnauthorized     = errorsmod.Register(ModuleName, 2, "sender is not the manager")
	ErrNoFunds          = errorsmod.Register(ModuleName, 3, "no funds sent")
	ErrMultipleFunds    = errorsmod.Register(ModuleName, 4, "more than one coin sent")
	ErrInvalidDenom     = errorsmod.Register(ModuleName, 5, "invalid denom")
	ErrFundsNotExpected = errorsmod.Register(ModuleName, 6, "funds not expected")
	ErrMinDeposit       = errorsmod.Register(ModuleName, 7, "deposit below minimum")
	ErrMaxDeposit       = errorsmod.Register(ModuleName, 8, "deposit above maximum")

	ErrValidatorNotDiscoverable  = errorsmod.Register(ModuleName, 10, "validator not discoverable on chain")
	ErrValidatorNotAdded         = errorsmod.Register(ModuleName, 11, "validator not added to pool")
	ErrValidatorAssociatedToPool = errorsmod.Register(ModuleName, 12, "validator already associated to a pool")
	ErrValidatorsCannotBeSame    = errorsmod.Register(ModuleName, 13, "source and destination validators cannot be the same")
	ErrNoValidatorsInPool        = errorsmod.Register(ModuleName, 14, "no validators in pool")
	ErrAllValidatorsJailed       = errorsmod.Register(ModuleName, 15, "no active validator in pool")

	ErrPoolNotFound           = errorsmod.Register(ModuleName, 20, "pool not found")
	ErrPoolInactive           = errorsmod.Register(ModuleName, 21, "pool inactive")
	ErrValidatorContractInUse = errorsmod.Register(ModuleName, 22, "validator contract already used by another pool")
	ErrRewardContractInUse    = errorsmod.Register(ModuleName, 23, "reward contract already used by another pool")

	ErrNoOp                           = errorsmod.Register(ModuleName, 30, "nothing to do")
	ErrUndelegationBatchNotFound      = errorsmod.Register(ModuleName, 31, "undelegation batch not found")
	ErrUndelegationBatchNotReconciled = errorsmod.Register(ModuleName, 32, "undelegation batch not reconciled")

	ErrZeroRewards       = errorsmod.Register(ModuleName, 40, "no rewards to transfer")
	ErrZeroAmount        = errorsmod.Register(ModuleName, 41, "amount must be positive")
	ErrZeroStaked        = errorsmod.Register(ModuleName, 42, "pool has no stake")
	ErrInsufficientFunds = errorsmod.Register(ModuleName, 43, "insufficient stake to satisfy request")

	ErrAirdropNotRegistered = errorsmod.Register(ModuleName, 50, "airdrop not registered")

	ErrUnknownMsg = errorsmod.Register(ModuleName, 60, "unknown message")
)
