package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/initia-labs/liquidstaking/x/liquidstaking/types"
)

// UpdateConfig applies the non-nil fields of msg to the stored config.
func (k Keeper) UpdateConfig(ctx context.Context, msg *types.MsgUpdateConfig) (types.Config, error) {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return types.Config{}, err
	}

	config = msg.Apply(config)
	if err := config.Validate(); err != nil {
		return types.Config{}, errorsmod.Wrap(sdkerrors.ErrInvalidRequest, err.Error())
	}

	return config, k.Config.Set(ctx, config)
}
