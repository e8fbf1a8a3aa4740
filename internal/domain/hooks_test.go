package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHookRegistry_RunsInOrderAndStops(t *testing.T) {
	r := NewHookRegistry[*[]string]()
	stop := errors.New("stop")

	r.OnBeforeCalculate(func(_ context.Context, log *[]string) error {
		*log = append(*log, "first")
		return nil
	})
	r.OnBeforeCalculate(func(_ context.Context, log *[]string) error {
		*log = append(*log, "second")
		return stop
	})
	r.OnBeforeCalculate(func(_ context.Context, log *[]string) error {
		*log = append(*log, "third")
		return nil
	})

	var log []string
	err := r.Run(context.Background(), BeforeCalculate, &log)

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, []string{"first", "second"}, log)
	assert.NoError(t, r.Run(context.Background(), AfterCalculate, &log))
}
