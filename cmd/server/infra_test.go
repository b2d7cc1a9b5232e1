package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

type indexerFunc func(ctx context.Context) error

func (f indexerFunc) EnsureIndexes(ctx context.Context) error { return f(ctx) }

func TestEnsureIndexesLogsAndContinues(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	ensureIndexes(context.Background(), "legacy", indexerFunc(func(context.Context) error {
		return errors.New("not authorized on village")
	}), log)

	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "store=legacy")
	assert.Contains(t, buf.String(), "not authorized on village")
}

func TestEnsureIndexesQuietOnSuccess(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	called := false
	ensureIndexes(context.Background(), "legacy", indexerFunc(func(context.Context) error {
		called = true
		return nil
	}), log)

	assert.True(t, called)
	assert.Empty(t, buf.String())
}
