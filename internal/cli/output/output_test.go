package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		want Mode
	}{
		{name: "auto on non-terminal", mode: ModeAuto, want: ModeMarkdown},
		{name: "empty is auto", mode: "", want: ModeMarkdown},
		{name: "explicit text", mode: ModeText, want: ModeText},
		{name: "explicit markdown", mode: ModeMarkdown, want: ModeMarkdown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, tt.mode)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestRenderer_Streams(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeText)

	r.Println("hello")
	r.Printf("%d models\n", 3)
	r.Success("done")
	r.Warn("careful")

	assert.Equal(t, "hello\n3 models\n", out.String())
	// Buffers are not terminals, so no escape sequences are written.
	assert.Equal(t, "done\ncareful\n", errOut.String())
	assert.Equal(t, "plain", r.Styles().Bold.Render("plain"))
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}
