package order

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWorkflowHappyPath(t *testing.T) {
	path := []Status{
		StatusReception, StatusDiagnosis, StatusQuote, StatusAuthorized,
		StatusInRepair, StatusFinished, StatusDelivered,
	}
	for i := 0; i < len(path)-1; i++ {
		require.True(t, path[i].CanTransitionTo(path[i+1]),
			"expected %s -> %s to be allowed", path[i], path[i+1])
	}
}

func TestWorkflowRejectsSkips(t *testing.T) {
	require.False(t, StatusReception.CanTransitionTo(StatusQuote))
	require.False(t, StatusQuote.CanTransitionTo(StatusInRepair))
	require.False(t, StatusDelivered.CanTransitionTo(StatusReception))
	require.False(t, StatusCancelled.CanTransitionTo(StatusReception))
}

func TestWorkflowCancellation(t *testing.T) {
	for _, s := range []Status{StatusReception, StatusDiagnosis, StatusQuote, StatusAuthorized, StatusInRepair, StatusFinished} {
		require.True(t, s.CanTransitionTo(StatusCancelled), "expected %s to allow cancellation", s)
	}
	require.False(t, StatusDelivered.CanTransitionTo(StatusCancelled))
}

func TestCanEditItems(t *testing.T) {
	editable := map[Status]bool{
		StatusReception:  true,
		StatusDiagnosis:  true,
		StatusQuote:      true,
		StatusAuthorized: false,
		StatusInRepair:   false,
		StatusFinished:   false,
		StatusDelivered:  false,
		StatusCancelled:  false,
	}
	for s, want := range editable {
		require.Equal(t, want, s.CanEditItems(), "status %s", s)
	}
}

func TestStatusValid(t *testing.T) {
	require.True(t, StatusReception.Valid())
	require.False(t, Status("PAINTING").Valid())
}
