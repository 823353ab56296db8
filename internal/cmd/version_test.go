package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, execute(t, NewVersionCmd("1.2.3"), &buf))
	assert.Equal(t, "sysupd version 1.2.3\n", buf.String())
}
