package metadata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBlock_NoDelimiter_ReturnsTrimmedBodyOnly(t *testing.T) {
	meta, body := ParseBlock("  # Title\n\nHello\n")
	require.Empty(t, meta)
	require.Equal(t, "# Title\n\nHello", body)
}

func TestParseBlock_BasicBlock_SplitsAndCoerces(t *testing.T) {
	meta, body := ParseBlock("---\ntitle: Test\npublished: true\ncount: 3\n---\nBody")
	require.Equal(t, map[string]any{
		"title":     "Test",
		"published": true,
		"count":     3,
	}, meta)
	require.Equal(t, "Body", body)
}

func TestParseBlock_MissingClosingDelimiter_LenientFallback(t *testing.T) {
	input := "---\ntitle: Broken\nno closing here"
	meta, body := ParseBlock(input)
	require.Empty(t, meta)
	require.Equal(t, input, body)
}

func TestParseBlock_LineWithoutColon_IsSkipped(t *testing.T) {
	meta, body := ParseBlock("---\njust some words\ntitle: Kept\n---\nBody")
	require.Equal(t, map[string]any{"title": "Kept"}, meta)
	require.Equal(t, "Body", body)
}

func TestParseBlock_ValueWithColon_SplitsAtFirstColon(t *testing.T) {
	meta, _ := ParseBlock("---\nurl: http://example.com:8080/x\n---\nBody")
	require.Equal(t, "http://example.com:8080/x", meta["url"])
}

func TestParseBlock_CRLF_Input(t *testing.T) {
	meta, body := ParseBlock("---\r\ntitle: Test\r\n---\r\nBody\r\n")
	require.Equal(t, "Test", meta["title"])
	require.Equal(t, "Body", body)
}

func TestCoerceValue_Order(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  any
	}{
		{"double quoted", `"true"`, "true"},
		{"single quoted", `'42'`, "42"},
		{"quoted keeps escapes verbatim", `"a\nb"`, `a\nb`},
		{"bool true", "true", true},
		{"bool mixed case", "True", true},
		{"bool false", "FALSE", false},
		{"null word", "null", nil},
		{"null tilde", "~", nil},
		{"int", "3", 3},
		{"negative int", "-12", -12},
		{"float", "3.25", 3.25},
		{"negative float", "-0.5", -0.5},
		{"comma array no whitespace", "a,b,c", []string{"a", "b", "c"}},
		{"comma with whitespace stays string", "a, b", "a, b"},
		{"plain string", "hello world", "hello world"},
		{"empty value", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, coerceValue(tc.input))
		})
	}
}

func TestParseWithNormalization_GlobsString_WrapsAsSlice(t *testing.T) {
	meta, _ := ParseWithNormalization("---\nglobs: src/**\n---\nBody")
	require.Equal(t, []string{"src/**"}, meta["globs"])
}

func TestParseWithNormalization_GlobsEmptyString_EmptySlice(t *testing.T) {
	meta, _ := ParseWithNormalization("---\nglobs: \"\"\n---\nBody")
	require.Equal(t, []string{}, meta["globs"])
}

func TestParseWithNormalization_Defaults(t *testing.T) {
	meta, _ := ParseWithNormalization("---\ntitle: T\n---\nBody")
	require.Equal(t, []string{}, meta["globs"])
	require.Equal(t, false, meta["alwaysApply"])
}

func TestParseWithNormalization_AlwaysApplyString(t *testing.T) {
	meta, _ := ParseWithNormalization("---\nalwaysApply: \"True\"\n---\nBody")
	require.Equal(t, true, meta["alwaysApply"])
}

func TestParseWithNormalization_RemovesNullKeepsEmptyString(t *testing.T) {
	meta, _ := ParseWithNormalization("---\ngone: null\nalso: ~\nkept:\n---\nBody")
	require.NotContains(t, meta, "gone")
	require.NotContains(t, meta, "also")
	require.Equal(t, "", meta["kept"])
}

func TestNormalize_Idempotent(t *testing.T) {
	meta, _ := ParseWithNormalization("---\ntitle: T\nglobs: src/**\nalwaysApply: true\ncount: 2\n---\nBody")

	again := Normalize(meta)
	require.Equal(t, meta, again)
	require.Equal(t, []string{"src/**"}, again["globs"])
	require.Equal(t, true, again["alwaysApply"])
	require.Equal(t, 2, again["count"])
}
