package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfirm(t *testing.T) {
	gate := NewGate("hunter2")

	require.True(t, gate.Confirm("hunter2"))
	require.False(t, gate.Confirm("hunter3"))
	require.False(t, gate.Confirm(""))
	require.False(t, gate.Confirm("hunter2 "))
}

func TestConfirmEmptySecretAlwaysFails(t *testing.T) {
	gate := NewGate("")

	require.False(t, gate.Confirm(""))
	require.False(t, gate.Confirm("anything"))
	require.False(t, gate.Login(""))
}

func TestLoginSession(t *testing.T) {
	gate := NewGate("hunter2")
	require.False(t, gate.Authenticated())

	require.False(t, gate.Login("wrong"))
	require.False(t, gate.Authenticated())

	require.True(t, gate.Login("hunter2"))
	require.True(t, gate.Authenticated())

	gate.Logout()
	require.False(t, gate.Authenticated())
}

func TestConfirmDoesNotTouchSession(t *testing.T) {
	gate := NewGate("hunter2")
	require.True(t, gate.Confirm("hunter2"))
	require.False(t, gate.Authenticated())
}
