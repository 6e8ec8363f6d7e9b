package auditwriter

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/payasyougo/payasyougo/internal/rabbitmq"
)

func TestHandleEvent_MalformedMessageNotRequeued(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	app := &App{logger: logger}

	handler := app.handleEvent(context.Background())

	err := handler([]byte("not json"))
	assert.Error(t, err)
	assert.ErrorIs(t, err, rabbitmq.ErrNonRetryable)
}
