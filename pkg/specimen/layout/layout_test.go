package layout

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpaceText(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		spaces int
		want   string
	}{
		{name: "Empty", in: "", spaces: 2, want: ""},
		{name: "NoSpacing", in: "ABC", spaces: 0, want: "ABC"},
		{name: "Default", in: "ABC", spaces: 2, want: "A  B  C  "},
		{name: "Negative", in: "ab", spaces: -3, want: "ab"},
		{name: "Multibyte", in: "’-", spaces: 1, want: "’ - "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SpaceText(tt.in, tt.spaces))
		})
	}
}

func TestSpaceText_Properties(t *testing.T) {
	inputs := []string{
		"ABCDEFGHI",
		"0123456789",
		".,!?#%@$&()’-+=/;:",
		"a b",
		"x",
	}

	for _, in := range inputs {
		for spaces := 0; spaces <= 4; spaces++ {
			out := SpaceText(in, spaces)

			n := utf8.RuneCountInString(in)
			require.Equal(t, n*(1+spaces), utf8.RuneCountInString(out), "length for %q/%d", in, spaces)

			var recovered strings.Builder
			for i, r := range []rune(out) {
				if i%(1+spaces) == 0 {
					recovered.WriteRune(r)
				} else {
					require.Equal(t, ' ', r, "inserted rune at %d for %q/%d", i, in, spaces)
				}
			}
			assert.Equal(t, in, recovered.String())
		}
	}
}

func TestNewMetrics(t *testing.T) {
	m := NewMetrics(36, 300)
	assert.Equal(t, Metrics{
		FontSizePx:   150,
		XOffset:      225,
		YOffset:      150,
		YSep:         225,
		BottomOffset: 225,
	}, m)

	// 切り捨て
	m = NewMetrics(10, 96)
	assert.Equal(t, 13, m.FontSizePx)
	assert.Equal(t, 19, m.XOffset)
}

func TestMetrics_Rows(t *testing.T) {
	m := NewMetrics(36, 300)

	for i := 0; i < 8; i++ {
		assert.Equal(t, m.YOffset+i*m.YSep, m.RowY(i))
	}
	assert.Equal(t, m.YSep, m.RowY(3)-m.RowY(2))

	_, height := DefaultPageSize.Pixels(300)
	assert.Equal(t, 2550-150-225, m.FooterY(height))
	assert.Less(t, m.FooterY(height)+m.FontSizePx, height)
}

func TestPageSize_Pixels(t *testing.T) {
	w, h := DefaultPageSize.Pixels(300)
	assert.Equal(t, 3300, w)
	assert.Equal(t, 2550, h)

	w, h = PageSize{Width: 8.27, Height: 11.69}.Pixels(72)
	assert.Equal(t, 595, w)
	assert.Equal(t, 841, h)
}

func TestParsePageSize(t *testing.T) {
	tests := []struct {
		in      string
		want    PageSize
		wantErr bool
	}{
		{in: "", want: DefaultPageSize},
		{in: "11x8.5", want: PageSize{11, 8.5}},
		{in: "11,8.5", want: PageSize{11, 8.5}},
		{in: "11 8.5", want: PageSize{11, 8.5}},
		{in: " 4X6 ", want: PageSize{4, 6}},
		{in: "Letter", want: PageSize{8.5, 11}},
		{in: "a4", want: PageSize{8.27, 11.69}},
		{in: "11", wantErr: true},
		{in: "axb", wantErr: true},
		{in: "0x5", wantErr: true},
		{in: "-1x5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePageSize(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPageSize_String(t *testing.T) {
	assert.Equal(t, "11x8.5", DefaultPageSize.String())
}
