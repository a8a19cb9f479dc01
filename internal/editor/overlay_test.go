package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisibleLen(t *testing.T) {
	assert.Equal(t, 0, visibleLen(""))
	assert.Equal(t, 3, visibleLen("abc"))
	assert.Equal(t, 3, visibleLen("\x1b[31mabc\x1b[0m"))
	assert.Equal(t, 0, visibleLen("\x1b[1m\x1b[0m"))
}

func TestSpliceLineAt(t *testing.T) {
	assert.Equal(t, "abXYef", spliceLineAt("abcdef", "XY", 2))
	// A short background line is padded out to the splice column.
	assert.Equal(t, "ab  XY", spliceLineAt("ab", "XY", 4))
	// Styling before the splice point survives; styling inside the
	// covered span goes with it.
	got := spliceLineAt("\x1b[31mredred\x1b[0m tail", "OV", 2)
	assert.Equal(t, "\x1b[31mreOVed\x1b[0m tail", got)
}

func TestOverlayAt(t *testing.T) {
	got := overlayAt("aaaa\nbbbb\ncccc", "XX\nYY", 1, 1)
	assert.Equal(t, "aaaa\nbXXb\ncYYc", got)

	// Overlay rows falling outside the background are dropped.
	got = overlayAt("aaaa", "XX\nYY", 0, 0)
	assert.Equal(t, "XXaa", got)
}
