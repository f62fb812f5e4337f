package utils

import (
	"testing"
	"time"

	"trading-journal/pkg/logger"

	"github.com/stretchr/testify/require"
)

func TestGoSafeRecoversPanic(t *testing.T) {
	t.Parallel()

	log, err := logger.New("error", "json")
	require.NoError(t, err)

	done := make(chan struct{})
	GoSafe(log, func() {
		defer close(done)
		panic("boom")
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("goroutine did not finish")
	}
}

func TestGoSafeRunsFunction(t *testing.T) {
	t.Parallel()

	log, err := logger.New("error", "json")
	require.NoError(t, err)

	ran := make(chan struct{})
	GoSafe(log, func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("function was not executed")
	}
}
