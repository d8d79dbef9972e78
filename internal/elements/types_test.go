package elements

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"title", TypeTitle},
		{"Header", TypeHeader},
		{" paragraph ", TypeParagraph},
		{"table", TypeTable},
		{"figure", TypeFigure},
		{"caption", TypeOther},
		{"", TypeOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseType(tt.in), "ParseType(%q)", tt.in)
	}
}

func TestStyleFor_FallbackForOther(t *testing.T) {
	assert.Equal(t, "border-gray-500", StyleFor(TypeOther).BorderClass)
	assert.Equal(t, "border-gray-500", StyleFor(Type(42)).BorderClass)
	assert.Equal(t, "border-red-500", StyleFor(TypeTitle).BorderClass)
}

func TestElementLabel(t *testing.T) {
	assert.Equal(t, "caption", Element{Type: TypeOther, Name: "caption"}.Label())
	assert.Equal(t, "table", Element{Type: TypeTable, Name: "TABLE"}.Label())
}

func TestType_TextRoundTrip(t *testing.T) {
	b, err := json.Marshal(map[string]Type{"t": TypeFigure})
	require.NoError(t, err)
	assert.JSONEq(t, `{"t":"figure"}`, string(b))

	var got map[string]Type
	require.NoError(t, json.Unmarshal([]byte(`{"a":"table","b":"caption"}`), &got))
	assert.Equal(t, TypeTable, got["a"])
	assert.Equal(t, TypeOther, got["b"])
}
