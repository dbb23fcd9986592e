package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMode(t *testing.T) {
	tests := []struct {
		in   string
		want OutputMode
	}{
		{"text", ModeText},
		{"table", ModeTable},
		{"json", ModeJSON},
		{"auto", ModeAuto},
		{"", ModeAuto},
		{"xml", ModeAuto},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Mode(tt.in))
		})
	}
}

func TestRenderer_AutoResolvesToText(t *testing.T) {
	r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, false, ModeAuto)
	assert.Equal(t, ModeText, r.Mode())

	r = NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, false, ModeJSON)
	assert.Equal(t, ModeJSON, r.Mode())
}

func TestRenderer_BufferIsNotTTY(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
}

func TestRenderer_PlainMarkers(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, false, ModeText)

	r.Success("a.lql")
	r.Fail("b.lql")
	r.Error(errors.New("boom"))

	assert.Equal(t, "OK   a.lql\nFAIL b.lql\n", out.String())
	assert.Equal(t, "Error: boom\n", errOut.String())
	assert.Equal(t, "muted", r.Muted("muted"))
}

func TestRenderer_JSON(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeJSON)

	require.NoError(t, r.JSON(map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", out.String())
}
