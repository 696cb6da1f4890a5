package stream

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"Folio/internal/core/pagination"
)

// inflight counts calls that have been upgraded and not yet closed
var inflight sync.WaitGroup

// Serve upgrades the request and runs fn over the connection.
// The call's context ends when fn returns. Cancelling the request context
// closes the connection with 1001, which unblocks a pending Recv.
func Serve[Req, Resp any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, method string, fn func(ctx context.Context, s pagination.Stream[Req, Resp]) error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("method", method)

	conn, err := Upgrade[Req, Resp](w, r, logger)
	if err != nil {
		// the upgrader already answered with an HTTP error
		logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	inflight.Add(1)
	defer inflight.Done()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	stop := context.AfterFunc(ctx, func() {
		conn.Close(ctx.Err())
	})
	defer stop()

	// The writer is hijacked, so no HTTP middleware can answer a panic
	defer func() {
		if p := recover(); p != nil {
			logger.Error("stream panicked", "panic", p)
			conn.Close(fmt.Errorf("stream panicked: %v", p))
		}
	}()

	err = fn(ctx, conn)
	switch {
	case err == nil:
	case isDisconnect(err):
		logger.Debug("client disconnected", "error", err)
		err = nil
	default:
		status := Classify(err)
		if status.Name == StatusInternal {
			logger.Error("stream failed", "error", err)
		} else if !status.Silent {
			logger.Info("stream rejected", "status", status.Name, "reason", status.Reason)
		}
	}

	conn.Close(err)
}

// Wait blocks until every upgraded call has closed or ctx ends.
// Shutdown does not track hijacked connections; servers call Wait after it.
func Wait(ctx context.Context) error {
	drained := make(chan struct{})
	go func() {
		inflight.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
