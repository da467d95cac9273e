package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWithHint(t *testing.T) {
	err := New("error")
	withHint := WithHint(err, "try this fix")

	hints := GetAllHints(withHint)
	require.Len(t, hints, 1)
	assert.Equal(t, "try this fix", hints[0])
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithHint(nil, "hint"))
}

func TestSentinels(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"unknown format wrapped", Wrapf(ErrUnknownFormat, "decoding %s", "site.txt"), IsUnknownFormatError, true},
		{"invalid AST wrapped", Wrap(ErrInvalidAST, "root"), IsInvalidASTError, true},
		{"constructed invalid AST", NewInvalidASTError("node %d has no kind", 3), IsInvalidASTError, true},
		{"unrelated", New("boom"), IsInvalidASTError, false},
		{"nil", nil, IsUnknownFormatError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.err))
		})
	}
}

func TestNewInvalidASTErrorMessage(t *testing.T) {
	err := NewInvalidASTError("node %d has no kind", 3)
	assert.Contains(t, err.Error(), "node 3 has no kind")
	assert.Contains(t, err.Error(), "invalid AST")
}

func ExampleWrap() {
	err := Wrap(ErrUnknownFormat, "failed to load manifests/init.pp.txt")
	fmt.Println(err)
	// Output: failed to load manifests/init.pp.txt: unknown AST dump format
}
