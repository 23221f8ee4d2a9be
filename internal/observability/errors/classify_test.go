package errors

import (
	"errors"
	"fmt"
	"testing"

	apperrors "github.com/guided/guided-web/internal/errors"
	"github.com/stretchr/testify/assert"
)

type dialError struct{}

func (dialError) Error() string { return "dial" }

func TestClassify(t *testing.T) {
	assert.Equal(t, "", Classify(nil))
	assert.Equal(t, "unauthorized", Classify(fmt.Errorf("me: %w", apperrors.Unauthorized("expired"))))
	assert.Equal(t, "unavailable", Classify(apperrors.Unavailable(dialError{})))
	assert.Equal(t, "errors_dialerror", Classify(fmt.Errorf("wrap: %w", dialError{})))
	assert.Equal(t, "errors_errorstring", Classify(errors.New("plain")))
}
