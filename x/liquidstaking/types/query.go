package types

import (
	"context"

	"cosmossdk.io/math"

	"github.com/cosmos/cosmos-sdk/types/query"
)

type QueryConfigRequest struct{}

type QueryConfigResponse struct {
	Config Config `json:"config"`
}

type QueryStateRequest struct{}

type QueryStateResponse struct {
	State State `json:"state"`
}

type QueryPoolRequest struct {
	PoolID uint64 `json:"pool_id"`
}

type QueryPoolResponse struct {
	Pool Pool `json:"pool"`
}

type QueryPoolsRequest struct {
	Pagination *query.PageRequest `json:"pagination,omitempty"`
}

type QueryPoolsResponse struct {
	Pools      []Pool              `json:"pools"`
	Pagination *query.PageResponse `json:"pagination,omitempty"`
}

type QueryBatchRequest struct {
	PoolID  uint64 `json:"pool_id"`
	BatchID uint64 `json:"batch_id"`
}

type QueryBatchResponse struct {
	Batch UndelegationBatch `json:"batch"`
}

type QueryBatchesRequest struct {
	PoolID     uint64             `json:"pool_id"`
	Pagination *query.PageRequest `json:"pagination,omitempty"`
}

type QueryBatchesResponse struct {
	Batches    []UndelegationBatch `json:"batches"`
	Pagination *query.PageResponse `json:"pagination,omitempty"`
}

type QueryValidatorMetaRequest struct {
	PoolID    uint64 `json:"pool_id"`
	Validator string `json:"validator"`
}

type QueryValidatorMetaResponse struct {
	Meta ValidatorMeta `json:"meta"`
}

type QueryAirdropMetaRequest struct {
	Denom string `json:"denom"`
}

type QueryAirdropMetaResponse struct {
	Info AirdropRegistryInfo `json:"info"`
}

// QueryEstimateWithdrawalRequest asks what a user who queued Amount at
// SlashingPointer receives from a reconciled batch.
type QueryEstimateWithdrawalRequest struct {
	PoolID          uint64         `json:"pool_id"`
	BatchID         uint64         `json:"batch_id"`
	Amount          math.Int       `json:"amount"`
	SlashingPointer math.LegacyDec `json:"slashing_pointer"`
}

type QueryEstimateWithdrawalResponse struct {
	Amount math.Int `json:"amount"`
}

// QueryServer is the read surface of the module.
type QueryServer interface {
	Config(context.Context, *QueryConfigRequest) (*QueryConfigResponse, error)
	State(context.Context, *QueryStateRequest) (*QueryStateResponse, error)
	Pool(context.Context, *QueryPoolRequest) (*QueryPoolResponse, error)
	Pools(context.Context, *QueryPoolsRequest) (*QueryPoolsResponse, error)
	Batch(context.Context, *QueryBatchRequest) (*QueryBatchResponse, error)
	Batches(context.Context, *QueryBatchesRequest) (*QueryBatchesResponse, error)
	ValidatorMeta(context.Context, *QueryValidatorMetaRequest) (*QueryValidatorMetaResponse, error)
	AirdropMeta(context.Context, *QueryAirdropMetaRequest) (*QueryAirdropMetaResponse, error)
	EstimateWithdrawal(context.Context, *QueryEstimateWithdrawalRequest) (*QueryEstimateWithdrawalResponse, error)
}
