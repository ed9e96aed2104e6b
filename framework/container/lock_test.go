package container

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLockState_Permits(t *testing.T) {
	for _, op := range []Operation{OpAdd, OpSet, OpRemove, OpSetFlag, OpSetDelegator, OpGet, OpHas, OpLock, OpUnlock} {
		require.NoError(t, stateOpen.permits(op), op.String())

		err := stateLocked.permits(op)
		if op.mutates() {
			require.True(t, errors.Is(err, ErrLocked), op.String())
		} else {
			require.NoError(t, err, op.String())
		}
	}
}

func TestLockState_Next(t *testing.T) {
	require.Equal(t, stateLocked, stateOpen.next(OpLock))
	require.Equal(t, stateLocked, stateLocked.next(OpLock))
	require.Equal(t, stateOpen, stateLocked.next(OpUnlock))
	require.Equal(t, stateOpen, stateOpen.next(OpGet))
	require.Equal(t, stateLocked, stateLocked.next(OpAdd))
	require.Equal(t, "locked", stateLocked.String())
	require.Equal(t, "open", stateOpen.String())
	require.Equal(t, "unknown", Operation(99).String())
}

func TestContainer_LockBlocksMutations(t *testing.T) {
	c := New(WithAllowOverride(true))
	require.NoError(t, c.Set("a", 1))
	c.Lock()
	require.True(t, c.Locked())

	mutations := map[string]func() error{
		"add":                 func() error { return c.AddFactory("b", func(Resolver) any { return 2 }) },
		"set":                 func() error { return c.Set("b", 2) },
		"remove":              func() error { return c.Remove("a") },
		"set allow override":  func() error { return c.SetAllowOverride(false) },
		"set auto lock":       func() error { return c.SetAutoLock(false) },
		"set shared":          func() error { return c.SetSharedByDefault(false) },
		"set delegator":       func() error { return c.SetDelegator(New()) },
		"add blank name":      func() error { return c.Set("", 2) },
		"add invalid payload": func() error { return c.Add("b", 42, KindFactory) },
	}
	for name, mutate := range mutations {
		require.True(t, IsLocked(mutate()), name)
	}

	require.True(t, c.Has("a"))
	v, err := c.Get("a")
	require.NoError(t, err)
	require.Equal(t, 1, v)

	c.Unlock()
	require.False(t, c.Locked())
	require.NoError(t, c.Set("b", 2))
}
