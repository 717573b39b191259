package render

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderError(t *testing.T) {
	err := fmt.Errorf("generate: %w", Wrap("output", io.ErrShortWrite))

	var re *RenderError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "output", re.Op)
	assert.ErrorIs(t, err, io.ErrShortWrite)
	assert.Equal(t, "generate: render output: short write", err.Error())

	assert.NoError(t, Wrap("output", nil))
	assert.EqualError(t, Errorf("load font", "bad %s", "ttf"), "render load font: bad ttf")
}
