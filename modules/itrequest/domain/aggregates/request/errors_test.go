package request

import (
	"testing"

	gerrors "github.com/go-faster/errors"
	"github.com/stretchr/testify/require"

	"github.com/mexilacteos/itdesk/pkg/serrors"
)

func TestValidationError_CodeExtraction(t *testing.T) {
	err := NewValidationError("Missing required fields: Quantity", "Quantity")

	require.Equal(t, CodeValidationFailed, serrors.Code(err))
	require.True(t, IsValidationFailed(err))
	require.False(t, IsIllegalTransition(err))

	ve, ok := AsValidationError(err)
	require.True(t, ok)
	require.Equal(t, []string{"Quantity"}, ve.Violations)
}

func TestValidationError_CodeExtractionThroughWrap(t *testing.T) {
	err := gerrors.Wrap(NewValidationError("Missing required fields: Name"), "submit request")

	require.Equal(t, CodeValidationFailed, serrors.Code(err))
	require.True(t, IsValidationFailed(err))

	_, ok := AsValidationError(err)
	require.True(t, ok)
}
