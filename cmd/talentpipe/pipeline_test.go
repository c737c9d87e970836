package main

import (
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardFirstSignalCancelsOnceAndReturns(t *testing.T) {
	sigs := make(chan os.Signal, 2)
	var cancels int32
	done := make(chan struct{})

	go func() {
		forwardFirstSignal(sigs, func() { atomic.AddInt32(&cancels, 1) })
		close(done)
	}()

	sigs <- syscall.SIGINT
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler still running after the first signal")
	}

	// A later signal is no longer consumed.
	sigs <- syscall.SIGINT
	assert.Len(t, sigs, 1)
	require.Equal(t, int32(1), atomic.LoadInt32(&cancels))
}

func TestReadURLsSkipsBlanksAndComments(t *testing.T) {
	path := t.TempDir() + "/urls.txt"
	require.NoError(t, os.WriteFile(path, []byte(`
# candidates
https://www.linkedin.com/in/a

  https://www.linkedin.com/in/b  
`), 0o644))

	urls, err := readURLs(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://www.linkedin.com/in/a", "https://www.linkedin.com/in/b"}, urls)
}
