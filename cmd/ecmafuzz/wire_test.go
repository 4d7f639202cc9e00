package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecmafuzz/internal/config"
	"ecmafuzz/internal/fuzzer"
)

func TestNewSession_SeedsCorpusNonEmpty(t *testing.T) {
	sess := newSession(config.DefaultConfig())
	assert.Greater(t, sess.corpus.Len(), 0)
}

func TestBuildEngine_AllKindsConstructWithNoopExecutor(t *testing.T) {
	cfg := config.DefaultConfig()
	sess := newSession(cfg)
	exec, closeExec, err := sess.newExecutor("noop")
	require.NoError(t, err)
	defer closeExec()

	for _, kind := range []string{"mutation", "hybrid", "generative", "splice", "multi"} {
		engine, err := sess.buildEngine(kind, exec)
		require.NoError(t, err, kind)
		require.NotNil(t, engine, kind)
	}
}

func TestBuildEngine_UnknownKindErrors(t *testing.T) {
	sess := newSession(config.DefaultConfig())
	exec, _, _ := sess.newExecutor("noop")
	_, err := sess.buildEngine("bogus", exec)
	assert.Error(t, err)
}

func TestBuildEngine_MutationEngineRunsARound(t *testing.T) {
	sess := newSession(config.DefaultConfig())
	exec, _, _ := sess.newExecutor("noop")
	engine, err := sess.buildEngine("mutation", exec)
	require.NoError(t, err)

	exec2, err := engine.RunRound(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fuzzer.Succeeded, exec2.Outcome)
}

func TestNewExecutor_UnknownKindErrors(t *testing.T) {
	sess := newSession(config.DefaultConfig())
	_, _, err := sess.newExecutor("bogus")
	assert.Error(t, err)
}
