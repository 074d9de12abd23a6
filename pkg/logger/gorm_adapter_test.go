package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"ddd-skeleton/infrastructure/persistence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

func selectProject() (string, int64) { return "SELECT * FROM `projects` WHERE id = 1", 1 }

func TestGormLoggerHonoursLevel(t *testing.T) {
	// gorm 的级别越大越详细：Silent < Error < Warn < Info
	testCases := []struct {
		name      string
		level     gormlogger.LogLevel
		wantInfo  bool
		wantWarn  bool
		wantError bool
		wantSQL   bool
	}{
		{"silent", gormlogger.Silent, false, false, false, false},
		{"error", gormlogger.Error, false, false, true, false},
		{"warn", gormlogger.Warn, false, true, true, false},
		{"info", gormlogger.Info, true, true, true, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logs := observe(t, zapcore.DebugLevel)
			l := NewGormLogger(tc.level, 0)
			ctx := context.Background()

			l.Info(ctx, "migrated %d tables", 2)
			l.Warn(ctx, "deprecated option %s", "x")
			l.Error(ctx, "lost connection")
			l.Trace(ctx, time.Now(), selectProject, nil)

			assert.Equal(t, tc.wantInfo, logs.FilterMessage("migrated 2 tables").Len() == 1)
			assert.Equal(t, tc.wantWarn, logs.FilterMessage("deprecated option x").Len() == 1)
			assert.Equal(t, tc.wantError, logs.FilterMessage("lost connection").Len() == 1)
			assert.Equal(t, tc.wantSQL, logs.FilterMessage("SQL executed").Len() == 1)
		})
	}
}

func TestGormLoggerIgnoresRecordNotFound(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel)
	l := NewGormLogger(gormlogger.Warn, time.Second)

	l.Trace(context.Background(), time.Now(), selectProject, gormlogger.ErrRecordNotFound)
	l.Trace(context.Background(), time.Now(), selectProject, errors.New("connection lost"))

	assert.Equal(t, 0, logs.FilterMessage("SQL executed").Len())
	failed := logs.FilterMessage("SQL failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "connection lost", failed[0].ContextMap()["error"])
}

func TestGormLoggerSlowQueryCarriesRequestID(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel)
	l := NewGormLogger(gormlogger.Warn, 10*time.Millisecond)

	ctx := persistence.ContextWithRequestID(context.Background(), "req-9")
	l.Trace(ctx, time.Now().Add(-15*time.Millisecond), selectProject, nil)

	slow := logs.FilterMessage("Slow SQL").All()
	require.Len(t, slow, 1)
	assert.Equal(t, "gorm", slow[0].LoggerName)
	assert.Equal(t, "req-9", slow[0].ContextMap()[FieldRequestID])
	assert.Equal(t, "SELECT * FROM `projects` WHERE id = 1", slow[0].ContextMap()["sql"])
}

func TestGormLoggerSkipsSQLRenderingWhenFiltered(t *testing.T) {
	observe(t, zapcore.DebugLevel)
	l := NewGormLogger(gormlogger.Warn, time.Second)

	calls := 0
	l.Trace(context.Background(), time.Now(), func() (string, int64) {
		calls++
		return selectProject()
	}, nil)

	assert.Zero(t, calls)
}

func TestGormLoggerLogModeReturnsCopy(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel)
	quiet := NewGormLogger(gormlogger.Silent, 0)

	loud := quiet.LogMode(gormlogger.Info)
	loud.Trace(context.Background(), time.Now(), selectProject, nil)
	quiet.Trace(context.Background(), time.Now(), selectProject, nil)

	assert.Equal(t, 1, logs.FilterMessage("SQL executed").Len())
}
