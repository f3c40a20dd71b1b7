package testutil

import (
	"context"

	"github.com/feeflow/feeflow/internal/types"
)

// SetupContext returns a context carrying the identifiers every service
// operation expects to find.
func SetupContext() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, types.CtxOrgID, types.DefaultOrgID)
	ctx = context.WithValue(ctx, types.CtxUserID, types.DefaultUserID)
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	return ctx
}
