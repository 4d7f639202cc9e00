package executor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ecmafuzz/internal/fuzzer"
)

func TestNoop_AlwaysSucceeds(t *testing.T) {
	exec, err := Noop{}.Execute(context.Background(), "1+1;", time.Second)
	assert.NoError(t, err)
	assert.Equal(t, fuzzer.Succeeded, exec.Outcome)
}

func TestAlwaysCrash_ReportsCrashWithSignal(t *testing.T) {
	exec, err := AlwaysCrash{Signal: 11}.Execute(context.Background(), "x;", time.Second)
	assert.NoError(t, err)
	assert.Equal(t, fuzzer.Crashed, exec.Outcome)
	assert.Equal(t, 11, exec.Signal)
}
