package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_WithCause_IncludesCategoryAndCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(cause, CategoryNetwork, SeverityError, "notion api request failed")

	require.Equal(t, "network (error): notion api request failed: connection refused", err.Error())
	require.True(t, errors.Is(err, cause))
}

func TestError_WithoutCause_OmitsCauseSuffix(t *testing.T) {
	err := New(CategoryFileSystem, SeverityFatal, "write failed")
	require.Equal(t, "filesystem (fatal): write failed", err.Error())
}

func TestIsCategory_MatchesOnlySameCategory(t *testing.T) {
	err := ConfigError("NOTION_TOKEN is required")

	require.True(t, IsCategory(err, CategoryConfig))
	require.False(t, IsCategory(err, CategoryNetwork))
	require.False(t, IsCategory(fmt.Errorf("plain"), CategoryConfig))
}

func TestGetCategory_PlainError_FallsBackToInternal(t *testing.T) {
	require.Equal(t, CategoryInternal, GetCategory(fmt.Errorf("plain")))
	require.Equal(t, CategoryState, GetCategory(New(CategoryState, SeverityError, "x")))
}

func TestWithContext_AccumulatesFields(t *testing.T) {
	err := WrapError(fmt.Errorf("boom"), CategoryFileSystem, "delete failed").
		WithContext("path", "_pages/a.md")

	require.Equal(t, "_pages/a.md", err.Context["path"])
	require.Equal(t, SeverityError, err.Severity)
}
