package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	appctx "varibulk/internal/core/context"
)

func TestWithContext_AddsTraceAndUser(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := &Logger{zap.New(core).Sugar()}

	ctx := appctx.WithTrace(context.Background(), &appctx.TraceContext{TraceID: "t-1", RequestID: "r-1"})
	ctx = appctx.WithUser(ctx, &appctx.UserContext{UserID: "u-1"})
	ctx = WithLogger(ctx, log)

	Info(ctx, "batch processed", "rows", 3)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "t-1", fields["trace_id"])
	assert.Equal(t, "r-1", fields["request_id"])
	assert.Equal(t, "u-1", fields["user_id"])
	assert.EqualValues(t, 3, fields["rows"])
}

func TestWithFields_Accumulate(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := WithLogger(context.Background(), &Logger{zap.New(core).Sugar()})

	batchCtx := WithFields(ctx, "batch_id", "b-1")
	rowCtx := WithFields(batchCtx, "row", 2, "template", "PROFILE")

	Warn(rowCtx, "variant row failed")
	Info(batchCtx, "variant batch")

	require.Equal(t, 2, logs.Len())
	row := logs.All()[0].ContextMap()
	assert.Equal(t, "b-1", row["batch_id"])
	assert.EqualValues(t, 2, row["row"])
	assert.Equal(t, "PROFILE", row["template"])

	batch := logs.All()[1].ContextMap()
	assert.Equal(t, "b-1", batch["batch_id"])
	assert.NotContains(t, batch, "row")
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	log, err := New(Config{Level: "loud", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)
	assert.True(t, log.Desugar().Core().Enabled(zap.InfoLevel))
	assert.False(t, log.Desugar().Core().Enabled(zap.DebugLevel))
}
