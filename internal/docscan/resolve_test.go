package docscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		referencing string
		reference   string
		want        string
	}{
		{"sibling", "guide/intro.adoc", "logo.png", "guide/logo.png"},
		{"subdirectory", "guide/intro.adoc", "shared/footer.adoc", "guide/shared/footer.adoc"},
		{"parent", "guide/shared/footer.adoc", "../images/a.png", "guide/images/a.png"},
		{"dot segments", "guide/intro.adoc", "./x/../y.png", "guide/y.png"},
		{"root page", "intro.adoc", "logo.png", "logo.png"},
		{"site absolute", "guide/intro.adoc", "/images/a.png", "images/a.png"},
		{"empty reference", "guide/./intro.adoc", "", "guide/intro.adoc"},
		{"escapes root", "intro.adoc", "../outside.png", "../outside.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.referencing, tt.reference))
		})
	}
}

func TestResolveEmptyReferenceIsIdentity(t *testing.T) {
	for _, p := range []string{"index.adoc", "guide/intro.adoc", "a/b/../c.adoc", "/abs/x.adoc", "a//b.adoc"} {
		assert.Equal(t, Clean(p), Resolve(p, ""), p)
		assert.Equal(t, Clean(p), Clean(Clean(p)), "Clean must be idempotent for %s", p)
	}
}

func TestEscapesRoot(t *testing.T) {
	assert.True(t, EscapesRoot(".."))
	assert.True(t, EscapesRoot("../a.png"))
	assert.False(t, EscapesRoot("..a.png"))
	assert.False(t, EscapesRoot("guide/a.png"))
}
