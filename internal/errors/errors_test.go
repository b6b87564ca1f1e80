package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPipelineError_MessageIncludesCategoryAndSeverity(t *testing.T) {
	err := New(CategoryRender, SeverityWarning, "renderer failed")
	require.Equal(t, "render (warning): renderer failed", err.Error())
}

func TestWrap_UnwrapsToCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(cause, CategoryFileSystem, SeverityFatal, "write report")

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "disk full")
}

func TestIsCategory(t *testing.T) {
	err := New(CategoryReference, SeverityError, "broken reference")
	require.True(t, IsCategory(err, CategoryReference))
	require.False(t, IsCategory(err, CategoryConfig))
	require.False(t, IsCategory(stderrors.New("plain"), CategoryReference))
}

func TestGetCategory_DefaultsToInternal(t *testing.T) {
	require.Equal(t, CategoryInternal, GetCategory(stderrors.New("plain")))
	require.Equal(t, CategoryStorage, GetCategory(New(CategoryStorage, SeverityError, "x")))
}

func TestWithContext(t *testing.T) {
	err := New(CategoryPipeline, SeverityFatal, "boom").WithContext("stage", "transform")
	require.Equal(t, "transform", err.Context["stage"])
}
