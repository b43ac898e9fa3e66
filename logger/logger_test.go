package logger_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dora-network/order-utils/logger"
)

func TestLogger(t *testing.T) {
	l1, err := logger.New("debug", "test.log", false)
	require.NoError(t, err)
	l2, err := logger.NewThreadSafeLogger("debug", "test.log", false)
	require.NoError(t, err)
	wg := sync.WaitGroup{}
	wg.Add(2)
	go func() {
		l1.Info().Msg("test1")
		wg.Done()
	}()

	go func() {
		l2.Info().Msg("test2")
		// Need to give it some time to write to the file
		time.Sleep(20 * time.Millisecond)
		wg.Done()
	}()

	wg.Wait()

	require.NoError(t, logger.Close())

	contents, err := os.ReadFile("test.log")
	require.NoError(t, err)

	require.Contains(t, string(contents), "test1")
	require.Contains(t, string(contents), "test2")
	require.NoError(t, os.Remove("test.log"))
}

func TestLogger_Level(t *testing.T) {
	file := filepath.Join(t.TempDir(), "level.log")
	l, err := logger.New("warn", file, false)
	require.NoError(t, err)

	l.Info().Msg("hidden")
	l.Warn().Msg("shown")
	require.NoError(t, logger.Close())

	contents, err := os.ReadFile(file)
	require.NoError(t, err)
	require.NotContains(t, string(contents), "hidden")
	require.Contains(t, string(contents), "shown")
}

func TestLogger_InvalidLevel(t *testing.T) {
	_, err := logger.New("loud", "", false)
	require.Error(t, err)
}

func TestGlobal(t *testing.T) {
	t.Setenv("ORDER_UTILS_LOG_DIR", t.TempDir())
	l := logger.Global()
	require.NotNil(t, l)
	require.Same(t, l, logger.Global())

	logger.AddFieldsToGlobal(map[string]any{"component": "test"})
	require.NotSame(t, l, logger.Global())
}
