package kdesc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

const sample = `
name: words
links:
  - name: trim
    transformation: trim
  - name: keep-errors
    transformation: filter
    params:
      contains: ERROR
  - name: upper
    transformation: upper
`

func TestParse(t *testing.T) {
	t.Run("valid descriptor", func(t *testing.T) {
		d, err := ParseBytes([]byte(sample))
		assert.NoError(t, err)
		assert.Equal(t, "words", d.Name)
		assert.Equal(t, []string{"trim", "keep-errors", "upper"}, d.Names())
		assert.Equal(t, "ERROR", d.Links[1].Params["contains"])
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		_, err := Parse(strings.NewReader("name: x\nlinks:\n  - name: a\n    transformation: b\n    paramz: {}\n"))
		assert.Error(t, err)
	})

	t.Run("empty document", func(t *testing.T) {
		_, err := ParseBytes(nil)
		assert.IsError(t, err, ErrEmptyChain)
	})

	t.Run("round trip", func(t *testing.T) {
		d := MustNew("rt", Link{Name: "a", Transformation: "identity", Params: map[string]string{"k": "v"}})
		data, err := Marshal(d)
		assert.NoError(t, err)

		back, err := ParseBytes(data)
		assert.NoError(t, err)
		assert.Equal(t, d, back)
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chain.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	d, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(d.Links))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		links []Link
		want  error
	}{
		{"empty", nil, ErrEmptyChain},
		{"blank name", []Link{{Name: "", Transformation: "x"}}, ErrInvalidName},
		{"whitespace name", []Link{{Name: "a b", Transformation: "x"}}, ErrInvalidName},
		{"duplicate", []Link{{Name: "a", Transformation: "x"}, {Name: "a", Transformation: "y"}}, ErrDuplicateLink},
		{"missing id", []Link{{Name: "a"}}, ErrMissingID},
		{"too long", tooManyLinks(), ErrTooManyLinks},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("chain", tt.links...)
			assert.IsError(t, err, tt.want)
		})
	}
}

func tooManyLinks() []Link {
	links := make([]Link, MaxLinks+1)
	for i := range links {
		links[i] = Link{Name: fmt.Sprintf("l%d", i), Transformation: "x"}
	}
	return links
}
