package style

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{in: "black", want: color.RGBA{0, 0, 0, 255}},
		{in: " White ", want: color.RGBA{255, 255, 255, 255}},
		{in: "#fff", want: color.RGBA{255, 255, 255, 255}},
		{in: "#1a2B3c", want: color.RGBA{0x1a, 0x2b, 0x3c, 255}},
		{in: "#ff000080", want: color.RGBA{128, 0, 0, 128}},
		{in: "rgb(10, 20, 30)", want: color.RGBA{10, 20, 30, 255}},
		{in: "transparent", want: color.RGBA{}},
		{in: "Navy", want: color.RGBA{0, 0, 128, 255}},
		{in: "ivory", want: color.RGBA{255, 255, 240, 255}},
		{in: "cornflowerblue", want: color.RGBA{100, 149, 237, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseColor_Errors(t *testing.T) {
	for _, in := range []string{"", "#12", "#gggggg", "rgb(1,2)", "rgb(1,2,300)", "chartreuse-ish"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseColor(in)
			assert.Error(t, err)
		})
	}
}

func TestResolve(t *testing.T) {
	st, err := Resolve("", "")
	require.NoError(t, err)
	assert.Equal(t, Default(), st)

	st, err = Resolve("navy", "#fffff0")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0, 0, 128, 255}, st.Foreground)
	assert.Equal(t, color.RGBA{255, 255, 240, 255}, st.Background)

	_, err = Resolve("nope", "")
	assert.ErrorContains(t, err, "foreground")
	_, err = Resolve("", "nope")
	assert.ErrorContains(t, err, "background")
}
