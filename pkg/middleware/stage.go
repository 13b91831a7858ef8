package middleware

import "context"

// StageHandler runs one pipeline stage for the given realization. Batch
// stages that cover every realization at once receive AllRealizations.
type StageHandler func(ctx context.Context, realization int) error

const AllRealizations = -1

//goland:noinspection ALL
var (
	NoopStageHdl = func(context.Context, int) error { return nil }
)
