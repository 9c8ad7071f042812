package submission

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBegin_FromIdle(t *testing.T) {
	s, err := Begin(NewState())
	require.NoError(t, err)
	require.Equal(t, Submitting, s.Status)
	require.Empty(t, s.Message)
}

func TestBegin_RestartsTerminalStates(t *testing.T) {
	for _, prior := range []State{
		{Status: Succeeded, Message: LinkMessages.Succeeded},
		{Status: Failed, Message: LinkMessages.Failed},
	} {
		s, err := Begin(prior)
		require.NoError(t, err)
		require.Equal(t, State{Status: Submitting}, s, "prior %s", prior.Status)
	}
}

func TestBegin_RejectsInFlight(t *testing.T) {
	inFlight := State{Status: Submitting}
	s, err := Begin(inFlight)
	require.ErrorIs(t, err, ErrAlreadySubmitting)
	require.Equal(t, inFlight, s)
}

func TestComplete(t *testing.T) {
	s := Complete(State{Status: Submitting}, FileMessages)
	require.Equal(t, Succeeded, s.Status)
	require.Equal(t, "File uploaded and highlights are being generated.", s.Message)
}

func TestFail(t *testing.T) {
	s := Fail(State{Status: Submitting}, LinkMessages)
	require.Equal(t, Failed, s.Status)
	require.Equal(t, "Failed to submit the link.", s.Message)
}

func TestResolve_IgnoredOutsideSubmitting(t *testing.T) {
	idle := NewState()
	require.Equal(t, idle, Complete(idle, LinkMessages))
	require.Equal(t, idle, Fail(idle, LinkMessages))

	done := State{Status: Succeeded, Message: "x"}
	require.Equal(t, done, Fail(done, LinkMessages))
}

func TestReset(t *testing.T) {
	require.Equal(t, NewState(), Reset(State{Status: Failed, Message: "x"}))

	inFlight := State{Status: Submitting}
	require.Equal(t, inFlight, Reset(inFlight))
}

func TestStatus_StringRoundTrip(t *testing.T) {
	for _, s := range []Status{Idle, Submitting, Succeeded, Failed} {
		require.Equal(t, s, ParseStatus(s.String()))
	}
	require.Equal(t, "unknown", Status(42).String())
	require.True(t, Failed.Terminal())
	require.False(t, Submitting.Terminal())
}
