package demo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/sheetdesk/internal/catalog"
	"github.com/jask/sheetdesk/internal/sheets"
)

func TestSeedProducesBrowsableData(t *testing.T) {
	ctx := context.Background()
	store := sheets.NewMemoryStore()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, Seed(ctx, store, now))

	c := catalog.New(store, nil)
	opts, warnings := c.LoadOptions(ctx)
	require.Empty(t, warnings)
	require.Len(t, opts.Keywords, 4)
	require.Len(t, opts.EventTypes, 3)

	w, err := c.Wiki(ctx)
	require.NoError(t, err)
	chars := w.Group("Character")
	require.Len(t, chars.Cards, 2)
	require.Len(t, chars.Cards[0].Theories, 1)
	require.Len(t, w.Group("Movement").Cards[0].Reports, 1)

	months, err := c.Timeline(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, months)
	require.False(t, months[0].Start.IsZero())

	inst, err := c.Instances(ctx, "exploitation")
	require.NoError(t, err)
	require.Len(t, inst, 1)
}
