package source

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/entur/gibil-sub000/types"
)

func TestStatic_FetchRawFeed(t *testing.T) {
	t.Run("returns sightings for known airport", func(t *testing.T) {
		src := NewStatic(map[string][]types.RawSighting{
			"OSL": {
				{SourceAirport: "OSL", FlightID: "DY123", Direction: types.DirectionDeparture, OtherAirport: "BGO", ScheduledTime: time.Now()},
				{SourceAirport: "OSL", FlightID: "SK456", Direction: types.DirectionArrival, OtherAirport: "TRD", ScheduledTime: time.Now()},
			},
		})

		result, err := src.FetchRawFeed(context.Background(), "OSL")

		require.NoError(t, err)
		require.Len(t, result, 2)
		require.Equal(t, "DY123", result[0].FlightID)
	})

	t.Run("unknown airport yields empty feed", func(t *testing.T) {
		src := NewStatic(nil)

		result, err := src.FetchRawFeed(context.Background(), "BGO")

		require.NoError(t, err)
		require.Empty(t, result)
	})

	t.Run("honors cancelled context", func(t *testing.T) {
		src := NewStatic(nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := src.FetchRawFeed(ctx, "OSL")

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("returns a copy, not the backing slice", func(t *testing.T) {
		src := NewStatic(map[string][]types.RawSighting{
			"OSL": {{SourceAirport: "OSL", FlightID: "DY123"}},
		})

		result, err := src.FetchRawFeed(context.Background(), "OSL")
		require.NoError(t, err)
		result[0].FlightID = "mutated"

		again, err := src.FetchRawFeed(context.Background(), "OSL")
		require.NoError(t, err)
		require.Equal(t, "DY123", again[0].FlightID)
	})
}

func TestStatic_Update(t *testing.T) {
	src := NewStatic(map[string][]types.RawSighting{
		"OSL": {{SourceAirport: "OSL", FlightID: "DY123"}},
	})

	src.Update(map[string][]types.RawSighting{
		"BGO": {{SourceAirport: "BGO", FlightID: "WF789"}},
	})

	oslResult, err := src.FetchRawFeed(context.Background(), "OSL")
	require.NoError(t, err)
	require.Empty(t, oslResult)

	bgoResult, err := src.FetchRawFeed(context.Background(), "BGO")
	require.NoError(t, err)
	require.Len(t, bgoResult, 1)
}

func TestStatic_UpdateAirport(t *testing.T) {
	src := NewStatic(nil)

	src.UpdateAirport("TRD", []types.RawSighting{{SourceAirport: "TRD", FlightID: "SK900"}})

	result, err := src.FetchRawFeed(context.Background(), "TRD")
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Equal(t, "SK900", result[0].FlightID)
}
