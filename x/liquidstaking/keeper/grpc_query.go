package keeper

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"cosmossdk.io/collections"

	"github.com/cosmos/cosmos-sdk/types/query"

	"github.com/initia-labs/liquidstaking/x/liquidstaking/types"
)

// Querier is used as Keeper will have duplicate methods if used directly, and gRPC names take precedence over keeper
type Querier struct {
	*Keeper
}

var _ types.QueryServer = Querier{}

// NewQuerier returns a new Querier instance
func NewQuerier(k *Keeper) Querier {
	return Querier{k}
}

// pageRequest bounds the page size of a list query by the node limit.
func (q Querier) pageRequest(req *query.PageRequest) *query.PageRequest {
	maxLimit := q.config.QueryMaxPageLimit
	if maxLimit == 0 {
		return req
	}

	if req == nil {
		return &query.PageRequest{Limit: maxLimit}
	}

	if req.Limit == 0 || req.Limit > maxLimit {
		capped := *req
		capped.Limit = maxLimit
		return &capped
	}

	return req
}

func notFoundOrInternal(err error) error {
	if errors.Is(err, types.ErrPoolNotFound) || errors.Is(err, types.ErrUndelegationBatchNotFound) || errors.Is(err, types.ErrAirdropNotRegistered) {
		return status.Error(codes.NotFound, err.Error())
	}

	return status.Error(codes.Internal, err.Error())
}

// Config returns the module config.
func (q Querier) Config(ctx context.Context, req *types.QueryConfigRequest) (*types.QueryConfigResponse, error) {
	config, err := q.GetConfig(ctx)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryConfigResponse{Config: config}, nil
}

// State returns the module counters.
func (q Querier) State(ctx context.Context, req *types.QueryStateRequest) (*types.QueryStateResponse, error) {
	state, err := q.GetState(ctx)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryStateResponse{State: state}, nil
}

// Pool returns a single pool.
func (q Querier) Pool(ctx context.Context, req *types.QueryPoolRequest) (*types.QueryPoolResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	pool, err := q.GetPool(ctx, req.PoolID)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}

	return &types.QueryPoolResponse{Pool: pool}, nil
}

// Pools returns all pools in id order.
func (q Querier) Pools(ctx context.Context, req *types.QueryPoolsRequest) (*types.QueryPoolsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	pools, pageRes, err := query.CollectionPaginate(
		ctx, q.Keeper.Pools, q.pageRequest(req.Pagination),
		func(_ uint64, pool types.Pool) (types.Pool, error) {
			return pool, nil
		},
	)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryPoolsResponse{Pools: pools, Pagination: pageRes}, nil
}

// Batch returns a single undelegation batch.
func (q Querier) Batch(ctx context.Context, req *types.QueryBatchRequest) (*types.QueryBatchResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	batch, err := q.GetUndelegationBatch(ctx, req.PoolID, req.BatchID)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}

	return &types.QueryBatchResponse{Batch: batch}, nil
}

// Batches returns the undelegation batches of a pool in id order.
func (q Querier) Batches(ctx context.Context, req *types.QueryBatchesRequest) (*types.QueryBatchesResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	if _, err := q.GetPool(ctx, req.PoolID); err != nil {
		return nil, notFoundOrInternal(err)
	}

	batches, pageRes, err := query.CollectionPaginate(
		ctx, q.Keeper.UndelegationBatches, q.pageRequest(req.Pagination),
		func(_ collections.Pair[uint64, uint64], batch types.UndelegationBatch) (types.UndelegationBatch, error) {
			return batch, nil
		}, query.WithCollectionPaginationPairPrefix[uint64, uint64](req.PoolID),
	)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryBatchesResponse{Batches: batches, Pagination: pageRes}, nil
}

// ValidatorMeta returns the tracked stake of a validator in a pool.
func (q Querier) ValidatorMeta(ctx context.Context, req *types.QueryValidatorMetaRequest) (*types.QueryValidatorMetaResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	if req.Validator == "" {
		return nil, status.Error(codes.InvalidArgument, "validator address cannot be empty")
	}

	meta, err := q.ValidatorMetas.Get(ctx, collections.Join(req.Validator, req.PoolID))
	if errors.Is(err, collections.ErrNotFound) {
		return nil, status.Errorf(codes.NotFound, "validator %s is not part of pool %d", req.Validator, req.PoolID)
	} else if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryValidatorMetaResponse{Meta: meta}, nil
}

// AirdropMeta returns the registry entry of an airdrop denom.
func (q Querier) AirdropMeta(ctx context.Context, req *types.QueryAirdropMetaRequest) (*types.QueryAirdropMetaResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	info, err := q.GetAirdropInfo(ctx, req.Denom)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}

	return &types.QueryAirdropMetaResponse{Info: info}, nil
}

// EstimateWithdrawal returns what a user would receive from a reconciled
// batch.
func (q Querier) EstimateWithdrawal(ctx context.Context, req *types.QueryEstimateWithdrawalRequest) (*types.QueryEstimateWithdrawalResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	if req.Amount.IsNil() || req.Amount.IsNegative() {
		return nil, status.Error(codes.InvalidArgument, "invalid amount")
	}

	batch, err := q.GetUndelegationBatch(ctx, req.PoolID, req.BatchID)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}

	amount, err := batch.Payout(req.Amount, req.SlashingPointer)
	if errors.Is(err, types.ErrUndelegationBatchNotReconciled) {
		return nil, status.Error(codes.FailedPrecondition, err.Error())
	} else if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	return &types.QueryEstimateWithdrawalResponse{Amount: amount}, nil
}
