package client

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"braces.dev/errtrace"
	"github.com/qmuntal/stateless"

	"github.com/ghettovoice/gohttp/internal/errorutil"
	"github.com/ghettovoice/gohttp/message"
)

// SendState is a state of a request send operation.
type SendState string

const (
	SendStateCreated   SendState = "created"
	SendStateSending   SendState = "sending"
	SendStateCompleted SendState = "completed"
	SendStateFailed    SendState = "failed"
)

const (
	sendEvtStart = "start"
	sendEvtDone  = "done"
	sendEvtFail  = "fail"
)

// sendOp tracks a single request through the transport.
type sendOp struct {
	req   *message.Request
	res   *message.Response
	err   error
	start time.Time
	log   *slog.Logger
	fsm   *stateless.StateMachine
}

func newSendOp(ctx context.Context, req *message.Request, log *slog.Logger) (*sendOp, error) {
	op := &sendOp{
		req: req,
		log: log,
		fsm: stateless.NewStateMachine(SendStateCreated),
	}

	op.fsm.SetTriggerParameters(sendEvtDone, reflect.TypeOf((*message.Response)(nil)))

	op.fsm.Configure(SendStateCreated).
		Permit(sendEvtStart, SendStateSending)

	op.fsm.Configure(SendStateSending).
		OnEntry(op.actSending).
		Permit(sendEvtDone, SendStateCompleted).
		Permit(sendEvtFail, SendStateFailed)

	op.fsm.Configure(SendStateCompleted).
		OnEntryFrom(sendEvtDone, op.actCompleted)

	op.fsm.Configure(SendStateFailed).
		OnEntryFrom(sendEvtFail, op.actFailed)

	if err := op.fsm.FireCtx(ctx, sendEvtStart); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return op, nil
}

// State returns the current state of the operation.
func (op *sendOp) State() SendState {
	return op.fsm.MustState().(SendState) //nolint:forcetypeassert
}

func (op *sendOp) run(ctx context.Context, tp Transport, maxBufSize int64) (*message.Response, error) {
	res, err := tp.RoundTrip(ctx, op.req)
	if err == nil && res == nil {
		err = ErrNoResponse
	}
	if err == nil && res.Content != nil {
		if err = res.Content.LoadIntoBuffer(maxBufSize); err != nil {
			res.Content.Close() //nolint:errcheck
		}
	}
	if err != nil {
		if cause := context.Cause(ctx); cause != nil && ctx.Err() != nil {
			err = fmt.Errorf("%w: %w", cause, err)
		}
		op.fire(ctx, sendEvtFail, err)
		return nil, errtrace.Wrap(op.err)
	}

	res.Request = op.req
	op.fire(ctx, sendEvtDone, res)
	return op.res, nil
}

func (op *sendOp) fire(ctx context.Context, evt string, args ...any) {
	if err := op.fsm.FireCtx(ctx, evt, args...); err != nil {
		panic(fmt.Errorf("fire %q in state %q: %w", evt, op.State(), err))
	}
}

func (op *sendOp) actSending(ctx context.Context, _ ...any) error {
	op.start = time.Now()
	op.log.LogAttrs(ctx, slog.LevelDebug, "send request", slog.Any("request", op.req))
	return nil
}

func (op *sendOp) actCompleted(ctx context.Context, args ...any) error {
	op.res = args[0].(*message.Response) //nolint:forcetypeassert
	op.log.LogAttrs(ctx, slog.LevelDebug, "request completed",
		slog.Any("request", op.req),
		slog.Any("response", op.res),
		slog.Duration("elapsed", time.Since(op.start)),
	)
	return nil
}

func (op *sendOp) actFailed(ctx context.Context, args ...any) error {
	op.err = args[0].(error) //nolint:forcetypeassert
	op.log.LogAttrs(ctx, slog.LevelDebug, "request failed",
		slog.Any("request", op.req),
		slog.Any("error", op.err),
		slog.Bool("timeout", errorutil.IsTimeoutErr(op.err)),
		slog.Duration("elapsed", time.Since(op.start)),
	)
	return nil
}
