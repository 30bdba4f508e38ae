package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/shopstack-labs/shopstack-backend/api/middleware"
	"github.com/shopstack-labs/shopstack-backend/api/validators"
	pkgerrors "github.com/shopstack-labs/shopstack-backend/pkg/errors"
	"github.com/shopstack-labs/shopstack-backend/pkg/pagination"
)

const searchMaxLen = 120

func ownerID(ctx context.Context) (uuid.UUID, error) {
	id, ok := middleware.OwnerIDFromContext(ctx)
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing authenticated user")
	}
	return id, nil
}

func listParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: validators.ParseQueryString(r, "cursor", 0),
	}, nil
}
