package apperr

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("claim: %w", Conflict("case %s not claimable", "c1"))
	assert.Equal(t, KindConflict, KindOf(err))
	assert.True(t, Is(err, KindConflict))
	assert.Equal(t, "case c1 not claimable", MessageOf(err))
	assert.Equal(t, http.StatusConflict, HTTPStatus(KindOf(err)))
}

func TestKindOfPlainError(t *testing.T) {
	err := fmt.Errorf("boom")
	assert.Equal(t, KindInternal, KindOf(err))
	assert.False(t, Is(nil, KindInternal))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(KindOf(err)))
}

func TestTimeoutUnwraps(t *testing.T) {
	err := Timeout("search timed out", context.DeadlineExceeded)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, http.StatusGatewayTimeout, HTTPStatus(err.Kind))
}
