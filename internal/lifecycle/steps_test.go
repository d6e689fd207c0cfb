package lifecycle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSteps_AllSucceed(t *testing.T) {
	var ran []string

	mk := func(name string) step {
		return step{name: name, mode: stepFatal, run: func(ctx context.Context) error {
			ran = append(ran, name)
			return nil
		}}
	}

	warnings, err := runSteps(context.Background(), []step{mk("one"), mk("two")})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, []string{"one", "two"}, ran)
}

func TestRunSteps_FatalStopsSequence(t *testing.T) {
	var ran []string

	steps := []step{
		{name: "first", mode: stepFatal, run: func(ctx context.Context) error {
			ran = append(ran, "first")
			return errors.New("boom")
		}},
		{name: "second", mode: stepFatal, run: func(ctx context.Context) error {
			ran = append(ran, "second")
			return nil
		}},
	}

	_, err := runSteps(context.Background(), steps)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "first", upstream.Step)
	assert.Equal(t, []string{"first"}, ran)
}

func TestRunSteps_BestEffortCollectsWarningAndContinues(t *testing.T) {
	var ran []string

	steps := []step{
		{name: "flaky", mode: stepBestEffort, run: func(ctx context.Context) error {
			ran = append(ran, "flaky")
			return errors.New("boom")
		}},
		{name: "after", mode: stepFatal, run: func(ctx context.Context) error {
			ran = append(ran, "after")
			return nil
		}},
	}

	warnings, err := runSteps(context.Background(), steps)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "flaky")
	assert.Equal(t, []string{"flaky", "after"}, ran)
}

func TestRunSteps_WarningHidesUpstreamDetail(t *testing.T) {
	steps := []step{
		{name: "flaky", mode: stepBestEffort, run: func(ctx context.Context) error {
			return errors.New("password authentication failed for user postgres")
		}},
	}

	warnings, err := runSteps(context.Background(), steps)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.NotContains(t, warnings[0], "postgres")
}
