package callgate

import (
	"context"
	"time"

	internalaudit "callgate/internal/audit"
)

const (
	auditEventAuthorizeSuccess  = "authorize.success"
	auditEventAuthorizeRejected = "authorize.rejected"
	auditEventKeyStoreError     = "authorize.store_error"
	auditEventTokenIssued       = "issue.success"
	auditEventRoomCreateFailed  = "issue.room_create_failed"
	auditEventTokenSignFailed   = "issue.token_sign_failed"
	auditEventIssueRejected     = "issue.rejected"
)

type auditDispatcher struct {
	inner *internalaudit.Dispatcher
}

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *auditDispatcher {
	inner := internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Enabled,
		BufferSize: cfg.BufferSize,
		DropIfFull: cfg.DropIfFull,
	}, sink)
	if inner == nil {
		return nil
	}
	return &auditDispatcher{inner: inner}
}

func (d *auditDispatcher) Close() {
	if d == nil {
		return
	}
	d.inner.Close()
}

func (d *auditDispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.inner.Dropped()
}

// emitAudit builds and forwards one audit event. The metadata closure is
// only invoked when a dispatcher is attached, so callers pay nothing for
// audit detail when auditing is disabled.
func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	desc *SessionDescriptor,
	err error,
	metadata func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	event := internalaudit.Event{
		Timestamp: time.Now(),
		EventType: eventType,
		IP:        clientIPFromContext(ctx),
		Success:   success,
	}
	if desc != nil {
		event.RoomName = desc.RoomName
		event.Participant = desc.Participant
		event.Agent = desc.Agent
	}
	if err != nil {
		event.Error = err.Error()
	}
	if metadata != nil {
		event.Metadata = metadata()
	}

	e.audit.inner.Emit(ctx, event)
}
