package errors

import (
	"bytes"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocGraphError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *DocGraphError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryIndex, SeverityFatal, "malformed site index"),
			expected: "index (fatal): malformed site index",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("permission denied"), CategoryDocument, SeverityFatal, "document cannot be read"),
			expected: "document (fatal): document cannot be read: permission denied",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, test.err.Error())
		})
	}
}

func TestDocGraphError_WithContext(t *testing.T) {
	err := New(CategoryConfig, SeverityFatal, "missing").
		WithContext("path", "docs").
		WithContext("kind", "input directory")

	require.NotNil(t, err.Context)
	assert.Equal(t, "docs", err.Context["path"])
	assert.Equal(t, "input directory", err.Context["kind"])
}

func TestIsCategory_Wrapped(t *testing.T) {
	inner := MalformedIndex("tab 2 has path but no subitems")
	wrapped := fmt.Errorf("load site: %w", inner)

	assert.True(t, IsCategory(wrapped, CategoryIndex))
	assert.False(t, IsCategory(wrapped, CategoryConfig))
	assert.False(t, IsCategory(fmt.Errorf("plain"), CategoryIndex))
	assert.Equal(t, CategoryIndex, GetCategory(wrapped))
	assert.Equal(t, CategoryInternal, GetCategory(fmt.Errorf("plain")))
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := UnreadableDocument("guide/intro.adoc", cause)
	assert.True(t, stdErrors.Is(err, cause))
}

func TestCLIErrorAdapter_ExitCodes(t *testing.T) {
	a := NewCLIErrorAdapter(false, nil)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", fmt.Errorf("x"), 1},
		{"validation", DuplicateOutput("$out_dir/a.png", "copy", "copy"), 2},
		{"index", MalformedIndex("x"), 3},
		{"document", UnreadableDocument("a", fmt.Errorf("x")), 4},
		{"config", ConfigurationNotFound("input directory", "docs"), 7},
		{"internal", InternalError("x", nil), 10},
		{"filesystem", OutputWriteError("build.ninja", fmt.Errorf("x")), 11},
		{"wrapped", fmt.Errorf("run: %w", MalformedIndex("x")), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	a := NewCLIErrorAdapter(false, nil)

	assert.Equal(t, "input directory not found path=docs",
		a.FormatError(ConfigurationNotFound("input directory", "docs")))
	assert.Equal(t, "document: document cannot be read path=a.adoc: gone",
		a.FormatError(UnreadableDocument("a.adoc", fmt.Errorf("gone"))))
	assert.Equal(t, "Error: plain", a.FormatError(fmt.Errorf("plain")))
	assert.Empty(t, a.FormatError(nil))

	verbose := NewCLIErrorAdapter(true, nil)
	assert.Equal(t, "index (fatal): malformed site index", verbose.FormatError(MalformedIndex("x")))
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var logBuf, out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))
	a := NewCLIErrorAdapter(true, logger)
	a.out = &out
	code := -1
	a.exit = func(c int) { code = c }

	a.HandleError(MalformedIndex("tab without subitems"))

	assert.Equal(t, 3, code)
	assert.Contains(t, out.String(), "malformed site index")
	assert.Contains(t, logBuf.String(), "category=index")

	code = -1
	a.HandleError(nil)
	assert.Equal(t, -1, code)
}
