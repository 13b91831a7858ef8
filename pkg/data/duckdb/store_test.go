package duckdb

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T) *Store {
	t.Helper()
	s := NewStore("")
	require.NoError(t, s.Connect(context.Background()))
	t.Cleanup(s.Close)
	return s
}

func TestDuckdb_WriteAndLoad(t *testing.T) {
	s := connect(t)
	ctx := context.Background()

	written := []Estimate{
		{Realization: 1, Parameter: "k", Linear: 0.11, Nonlinear: 0.1, Truth: 0.1},
		{Realization: 0, Parameter: "k", Linear: 0.12, Nonlinear: 0.105, Truth: 0.1},
		{Realization: 0, Parameter: "A0", Linear: 7.4, Nonlinear: 7.5, Truth: 7.5},
	}
	require.NoError(t, s.WriteEstimates(ctx, "run-1", "fit_first", written))
	require.NoError(t, s.WriteEstimates(ctx, "run-2", "fit_first", written[:1]))

	var loaded []Estimate
	err := s.LoadEstimates(ctx, "run-1", "fit_first", func(e Estimate) error {
		loaded = append(loaded, e)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []Estimate{written[2], written[1], written[0]}, loaded)
}

func TestDuckdb_LoadHandlerError(t *testing.T) {
	s := connect(t)
	ctx := context.Background()
	require.NoError(t, s.WriteEstimates(ctx, "run", "fit_second", []Estimate{{Parameter: "A0", Linear: 1, Nonlinear: 1, Truth: 1}}))

	stop := errors.New("stop")
	err := s.LoadEstimates(ctx, "run", "fit_second", func(Estimate) error { return stop })

	assert.ErrorIs(t, err, stop)
}

func TestDuckdb_NotConnected(t *testing.T) {
	s := NewStore("")

	assert.ErrorIs(t, s.WriteEstimates(context.Background(), "run", "x", nil), ErrNotConnected)
	assert.ErrorIs(t, s.LoadEstimates(context.Background(), "run", "x", func(Estimate) error { return nil }), ErrNotConnected)
}
