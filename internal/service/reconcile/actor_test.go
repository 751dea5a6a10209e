package reconcile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDetectOperator ensures both user and host are present.
func TestDetectOperator(t *testing.T) {
	t.Parallel()

	operator, err := detectOperator()
	require.NoError(t, err)

	userName, host, ok := strings.Cut(operator, "@")
	require.True(t, ok)
	require.NotEmpty(t, userName)
	require.NotEmpty(t, host)
}
