package window

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParseAction verifies accepted action spellings and rejection of unknown ones.
func TestParseAction(t *testing.T) {
	t.Parallel()

	cases := map[string]Action{
		"create":   ActionCreated,
		"Created":  ActionCreated,
		"update":   ActionUpdated,
		" updated": ActionUpdated,
		"DELETE":   ActionDeleted,
		"deleted":  ActionDeleted,
	}
	for s, want := range cases {
		got, err := ParseAction(s)
		require.NoError(t, err, s)
		require.Equal(t, want, got, s)
	}

	_, err := ParseAction("expire")
	require.ErrorIs(t, err, ErrUnknownAction)
}

// TestActionString ensures String and ParseAction agree.
func TestActionString(t *testing.T) {
	t.Parallel()

	for _, a := range []Action{ActionCreated, ActionUpdated, ActionDeleted} {
		parsed, err := ParseAction(a.String())
		require.NoError(t, err)
		require.Equal(t, a, parsed)
	}

	require.Equal(t, "Action(0)", Action(0).String())
}

// TestWindowClone verifies Clone copies the field map and handles nil.
func TestWindowClone(t *testing.T) {
	t.Parallel()
	require.Nil(t, (*Window)(nil).Clone())

	w := &Window{ID: "w-1", Fields: map[string]any{"environment": "Production"}}
	c := w.Clone()

	require.Equal(t, w, c)

	c.Fields["environment"] = "Development"
	require.Equal(t, "Production", w.Fields["environment"])
}
