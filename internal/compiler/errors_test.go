package compiler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodeClassifiesInternalSeparatelyFromSpecTime(t *testing.T) {
	assert.Equal(t, 2, KindInternal.ExitCode())
	for _, k := range []Kind{KindSpec, KindTopology, KindRouting, KindClock, KindProtocol} {
		assert.Equal(t, 1, k.ExitCode(), "%s must exit 1", k)
	}
}

func TestErrorUnwrapsToCause(t *testing.T) {
	cause := errors.New("boom")
	err := RoutingError("route failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "RoutingError")
	assert.Contains(t, err.Error(), "boom")
}

func TestErrorWithoutCauseOmitsColonSuffix(t *testing.T) {
	err := InternalInvariant("unreachable state", nil)
	assert.Equal(t, "InternalInvariant: unreachable state", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestAsMatchesConcreteErrorType(t *testing.T) {
	var wrapped error = SpecError("bad reference", nil)
	var target *Error
	require := assert.New(t)
	require.True(errors.As(wrapped, &target))
	require.Equal(KindSpec, target.Kind)
}
