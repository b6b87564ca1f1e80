package refs

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/document"
)

func testConfig() Config {
	return Config{
		SourceRoot: "docs",
		Scheme:     "doc",
		Extension:  ".ext",
		BasePath:   "/base",
	}
}

func indexOf(paths ...string) *document.Index {
	docs := make([]*document.Document, 0, len(paths))
	for _, p := range paths {
		docs = append(docs, &document.Document{ID: p, RelativePath: p})
	}
	return document.NewIndex(docs)
}

func TestResolve_HyperlinkDestination_RewrittenLabelPreserved(t *testing.T) {
	r := NewResolver(testConfig())
	idx := indexOf("main.ext")

	body, refs := r.Resolve(`See <a href="./main.ext">main</a>`, idx)

	require.Equal(t, `See <a href="/base/main">main</a>`, body)
	require.Len(t, refs, 1)
	require.True(t, refs[0].IsValid)
	require.Equal(t, "./main.ext", refs[0].Reference)
	require.Equal(t, "/base/main", refs[0].Resolved)
}

func TestResolve_BareMissingReference_InvalidButResolved(t *testing.T) {
	r := NewResolver(testConfig())
	idx := indexOf()

	body, refs := r.Resolve("read ./missing.ext first", idx)

	require.Equal(t, "read /base/missing first", body)
	require.Len(t, refs, 1)
	require.False(t, refs[0].IsValid)
	require.Equal(t, "/base/missing", refs[0].Resolved)
}

func TestResolve_SchemeForm(t *testing.T) {
	r := NewResolver(testConfig())
	idx := indexOf("guides/setup.ext")

	body, refs := r.Resolve("see doc:guides/setup.ext", idx)

	require.Equal(t, "see /base/guides/setup", body)
	require.Len(t, refs, 1)
	require.True(t, refs[0].IsValid)
}

func TestResolve_SourceRootForm_WithAndWithoutDotSlash(t *testing.T) {
	r := NewResolver(testConfig())
	idx := indexOf("a.ext")

	body, refs := r.Resolve("docs/a.ext and ./docs/a.ext", idx)

	require.Equal(t, "/base/a and /base/a", body)
	require.Len(t, refs, 2)
	require.True(t, refs[0].IsValid)
	require.True(t, refs[1].IsValid)
}

func TestResolve_LinkDestinationNotDoubleMatched(t *testing.T) {
	r := NewResolver(testConfig())
	idx := indexOf("main.ext")

	_, refs := r.Resolve(`<a href="./main.ext">x</a>`, idx)

	// The destination must yield exactly one record, not a second bare match.
	require.Len(t, refs, 1)
}

func TestResolve_DuplicateReferences_TwoRecords(t *testing.T) {
	r := NewResolver(testConfig())
	idx := indexOf("main.ext")

	_, refs := r.Resolve("./main.ext then ./main.ext again", idx)

	require.Len(t, refs, 2)
	require.Equal(t, refs[0], refs[1])
}

func TestResolve_BackslashSeparatorsNormalized(t *testing.T) {
	r := NewResolver(testConfig())
	idx := indexOf("sub/page.ext")

	body, refs := r.Resolve(`./sub\page.ext`, idx)

	require.Equal(t, "/base/sub/page", body)
	require.Len(t, refs, 1)
	require.True(t, refs[0].IsValid)
}

func TestDiagnostics_ContainsSourceAndReference(t *testing.T) {
	r := NewResolver(testConfig())
	idx := indexOf("main.ext")
	_, refs := r.Resolve("./nope.ext", idx)

	msgs := r.Diagnostics(refs, "guide/intro", idx)

	require.Len(t, msgs, 1)
	require.Contains(t, msgs[0], "guide/intro")
	require.Contains(t, msgs[0], "./nope.ext")
}

func TestDiagnostics_ValidReferencesProduceNoMessages(t *testing.T) {
	r := NewResolver(testConfig())
	idx := indexOf("main.ext")
	_, refs := r.Resolve("./main.ext", idx)

	require.Empty(t, r.Diagnostics(refs, "src", idx))
}

func TestDiagnostics_SuggestionsByBasename(t *testing.T) {
	r := NewResolver(testConfig())
	idx := indexOf("guides/setup.ext", "other.ext")
	_, refs := r.Resolve("./setup.ext", idx)

	msgs := r.Diagnostics(refs, "src", idx)

	require.Len(t, msgs, 1)
	require.Contains(t, msgs[0], "./guides/setup.ext")
	require.NotContains(t, msgs[0], "did you mean ./other.ext")
}

func TestDiagnostics_SubstringBasenameQualifies(t *testing.T) {
	r := NewResolver(testConfig())
	idx := indexOf("setup-advanced.ext")
	_, refs := r.Resolve("./setup.ext", idx)

	msgs := r.Diagnostics(refs, "src", idx)
	require.Contains(t, msgs[0], "./setup-advanced.ext")
}

func TestDiagnostics_KnownPathsTruncatedWithOverflow(t *testing.T) {
	r := NewResolver(testConfig())
	paths := make([]string, 8)
	for i := range paths {
		paths[i] = fmt.Sprintf("page-%d.ext", i)
	}
	idx := indexOf(paths...)
	_, refs := r.Resolve("./broken.ext", idx)

	msgs := r.Diagnostics(refs, "src", idx)

	require.Len(t, msgs, 1)
	for i := 0; i < 5; i++ {
		require.Contains(t, msgs[0], fmt.Sprintf("./page-%d.ext", i))
	}
	require.NotContains(t, msgs[0], "./page-5.ext")
	require.Contains(t, msgs[0], "(and 3 more)")
}

func TestComputeStats(t *testing.T) {
	require.Equal(t, Stats{Total: 0, Valid: 0, Broken: 0, SuccessRate: 100},
		ComputeStats(nil))

	allValid := []document.CrossReference{{IsValid: true}, {IsValid: true}}
	require.Equal(t, 100.0, ComputeStats(allValid).SuccessRate)

	mixed := []document.CrossReference{{IsValid: true}, {IsValid: true}, {IsValid: false}}
	got := ComputeStats(mixed)
	require.Equal(t, 3, got.Total)
	require.Equal(t, 2, got.Valid)
	require.Equal(t, 1, got.Broken)
	require.Equal(t, 66.67, got.SuccessRate)
}
