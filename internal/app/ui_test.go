package app

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"yashubustudio/pcadvisor/advisor"
)

func TestParseHexColor(t *testing.T) {
	assert.Equal(t, color.NRGBA{R: 0x19, G: 0x76, B: 0xD2, A: 0xff}, parseHexColor("#1976D2"))
	assert.Equal(t, color.NRGBA{R: 0xD3, G: 0x2F, B: 0x2F, A: 0xff}, parseHexColor("#D32F2F"))

	fallback := parseHexColor("")
	assert.Equal(t, fallback, parseHexColor("1976D2"))
	assert.Equal(t, fallback, parseHexColor("#12345"))
	assert.Equal(t, fallback, parseHexColor("#GGGGGG"))
}

func TestPresetAccentColorsDecode(t *testing.T) {
	// Every shipped persona carries a usable accent, none of them the
	// neutral fallback.
	fallback := parseHexColor("")
	for _, p := range advisor.DefaultPresets() {
		assert.NotEqual(t, fallback, parseHexColor(p.Color), p.Name)
	}
}
