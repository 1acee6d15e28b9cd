package gravatar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURL(t *testing.T) {
	t.Parallel()

	// md5("a@example.com") is stable.
	got := URL("a@example.com")
	assert.Equal(t,
		"https://www.gravatar.com/avatar/b418773a2c51fb9777a1648346fa7394?s=250&d=retro",
		got)
}

func TestURL_NormalizesAddress(t *testing.T) {
	t.Parallel()

	assert.Equal(t, URL("a@example.com"), URL("  A@Example.COM "))
	assert.NotEqual(t, URL("a@example.com"), URL("b@example.com"))
}
