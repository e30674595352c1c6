package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}

func TestWithContextAndFromContext(t *testing.T) {
	log, _ := newObservedLogger()
	ctx := WithContext(context.Background(), log)

	assert.Same(t, log, FromContext(ctx))
}

func TestFromContext_Missing(t *testing.T) {
	log := FromContext(context.Background())
	require.NotNil(t, log)
	// No-op logger must swallow writes without panicking
	log.Info("discarded")
}

func TestWithRequestID(t *testing.T) {
	log, logs := newObservedLogger()

	ctx, enriched := WithRequestID(context.Background(), log, "req-123")
	enriched.Info("handling request")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-123", logs.All()[0].ContextMap()["request_id"])
}

func TestWithTenantID(t *testing.T) {
	log, logs := newObservedLogger()

	ctx, enriched := WithTenantID(context.Background(), log, "tenant-42")
	enriched.Info("posting journal entry")

	assert.Equal(t, "tenant-42", GetTenantID(ctx))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "tenant-42", logs.All()[0].ContextMap()["tenant_id"])
}

func TestWithUserID(t *testing.T) {
	log, logs := newObservedLogger()

	ctx, enriched := WithUserID(context.Background(), log, "user-7")
	enriched.Info("finalizing invoice")

	assert.Equal(t, "user-7", GetUserID(ctx))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "user-7", logs.All()[0].ContextMap()["user_id"])
}

func TestGetters_Missing(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetTenantID(ctx))
	assert.Empty(t, GetUserID(ctx))
}

func TestContextLogger_InjectsContextFields(t *testing.T) {
	log, logs := newObservedLogger()

	ctx := WithContext(context.Background(), log)
	ctx, _ = WithRequestID(ctx, log, "req-9")
	ctx, _ = WithTenantID(ctx, log, "tenant-9")
	ctx, _ = WithUserID(ctx, log, "user-9")

	L(ctx).Info("document finalized", zap.String("invoice_number", "INV-2025-26-00001"))

	entries := logs.All()
	require.NotEmpty(t, entries)
	fields := entries[len(entries)-1].ContextMap()
	assert.Equal(t, "req-9", fields["request_id"])
	assert.Equal(t, "tenant-9", fields["tenant_id"])
	assert.Equal(t, "user-9", fields["user_id"])
	assert.Equal(t, "INV-2025-26-00001", fields["invoice_number"])
}

func TestContextLogger_WithLogger(t *testing.T) {
	log, logs := newObservedLogger()

	ctx, _ := WithTenantID(context.Background(), zap.NewNop(), "tenant-5")
	WithLogger(ctx, log).Warn("sequence retry")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zap.WarnLevel, entry.Level)
	assert.Equal(t, "tenant-5", entry.ContextMap()["tenant_id"])
}

func TestContextLogger_With(t *testing.T) {
	log, logs := newObservedLogger()

	cl := WithLogger(context.Background(), log).With(zap.String("component", "poster"))
	cl.Error("unbalanced entry rejected")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "poster", logs.All()[0].ContextMap()["component"])
}

func TestContextLogger_NilLogger(t *testing.T) {
	cl := &ContextLogger{ctx: context.Background()}
	// Must not panic with a nil underlying logger
	cl.Info("ignored")
	cl.Debug("ignored")
	cl.Warn("ignored")
	cl.Error("ignored")
}

func TestContextLogger_Zap(t *testing.T) {
	log, logs := newObservedLogger()

	ctx, _ := WithTenantID(context.Background(), zap.NewNop(), "tenant-3")
	WithLogger(ctx, log).Zap().Info("via plain zap")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "tenant-3", logs.All()[0].ContextMap()["tenant_id"])
}
