package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeToken(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercases", in: "XL", want: "xl"},
		{name: "trims", in: "  Navy  ", want: "navy"},
		{name: "mixed case and spaces", in: " Forest Green ", want: "forest green"},
		{name: "empty", in: "", want: ""},
		{name: "whitespace only", in: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeToken(tt.in))
		})
	}
}

func TestNormalizeTokens(t *testing.T) {
	got := NormalizeTokens([]string{"XL", "  ", "Navy ", ""})
	assert.Equal(t, []string{"xl", "navy"}, got)
}

func TestSizeUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Size
	}{
		{name: "bare string", in: `"M"`, want: Size{Value: "M"}},
		{name: "object with value", in: `{"value":"M","size_type":"letter"}`, want: Size{Value: "M", SizeType: "letter"}},
		{name: "legacy size key", in: `{"size":"42"}`, want: Size{Value: "42"}},
		{name: "value wins over size", in: `{"value":"L","size":"M"}`, want: Size{Value: "L"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Size
			require.NoError(t, json.Unmarshal([]byte(tt.in), &s))
			assert.Equal(t, tt.want, s)
		})
	}
}

func TestColorUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Color
	}{
		{name: "bare string", in: `"Navy"`, want: Color{Name: "Navy"}},
		{name: "object with name", in: `{"name":"Navy","hex_code":"#001f3f"}`, want: Color{Name: "Navy", HexCode: "#001f3f"}},
		{name: "legacy value key", in: `{"value":"Red"}`, want: Color{Name: "Red"}},
		{name: "name wins over value", in: `{"name":"Black","value":"Red"}`, want: Color{Name: "Black"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Color
			require.NoError(t, json.Unmarshal([]byte(tt.in), &c))
			assert.Equal(t, tt.want, c)
		})
	}
}

func TestCanonicalBothEncodingsAgree(t *testing.T) {
	var fromString, fromObject Size
	require.NoError(t, json.Unmarshal([]byte(`" XL "`), &fromString))
	require.NoError(t, json.Unmarshal([]byte(`{"value":"xl"}`), &fromObject))
	assert.Equal(t, fromObject.Canonical(), fromString.Canonical())

	var cs, co Color
	require.NoError(t, json.Unmarshal([]byte(`"NAVY"`), &cs))
	require.NoError(t, json.Unmarshal([]byte(`{"name":"navy"}`), &co))
	assert.Equal(t, co.Canonical(), cs.Canonical())
}

func TestProductSizeAndColorTokens(t *testing.T) {
	p := &Product{
		Sizes:  []Size{{Value: "M"}, {Value: "  "}, {Value: "XL"}},
		Colors: []Color{{Name: "Navy"}, {Name: ""}, {Name: "Red "}},
	}

	assert.Equal(t, []string{"m", "xl"}, p.SizeTokens())
	assert.Equal(t, []string{"navy", "red"}, p.ColorTokens())
}
