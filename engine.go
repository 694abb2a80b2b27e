package callgate

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"callgate/internal/ident"
)

// Engine is the per-request pipeline: credential authorization followed by
// session issuance. Engines are built once through [Builder.Build] and are
// safe for concurrent use; no state is shared between requests.
type Engine struct {
	config   Config
	resolver CredentialResolver
	media    MediaService
	audit    *auditDispatcher
	metrics  *Metrics
}

// Close flushes and stops the audit dispatcher. It is safe to call on a nil
// engine and safe to call more than once.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped returns the number of audit events discarded because the
// dispatch buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of the engine's metrics.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// Authorize resolves the caller credential against the key store.
//
// It returns nil when a record for the credential exists, ErrUnauthorized
// when the credential is missing, empty, or unknown, and
// ErrKeyStoreUnavailable when the store could not answer. Authorization
// performs no side effect beyond the remote read; re-validating the same
// credential is idempotent.
func (e *Engine) Authorize(ctx context.Context, credential string) error {
	if e == nil || e.resolver == nil {
		return ErrEngineNotReady
	}

	// A missing credential is an authorization failure, not a server error,
	// and never reaches the store.
	if credential == "" {
		e.metricInc(MetricAuthorizeRejected)
		e.emitAudit(ctx, auditEventAuthorizeRejected, false, nil, ErrUnauthorized, func() map[string]string {
			return map[string]string{
				"reason": "credential_missing",
			}
		})
		return ErrUnauthorized
	}

	ok, err := e.resolver.Resolve(ctx, credential)
	if err != nil {
		e.metricInc(MetricKeyStoreError)
		e.emitAudit(ctx, auditEventKeyStoreError, false, nil, err, nil)
		return errors.Join(ErrKeyStoreUnavailable, err)
	}
	if !ok {
		e.metricInc(MetricAuthorizeRejected)
		e.emitAudit(ctx, auditEventAuthorizeRejected, false, nil, ErrUnauthorized, func() map[string]string {
			return map[string]string{
				"reason": "credential_unknown",
			}
		})
		return ErrUnauthorized
	}

	e.metricInc(MetricAuthorizeSuccess)
	e.emitAudit(ctx, auditEventAuthorizeSuccess, true, nil, nil, nil)
	return nil
}

// Issue creates a session and signs a token for it. It must only be called
// after [Engine.Authorize] reported success.
//
// A fresh room name and participant identity are generated for every call;
// neither is reused or tracked across requests. Room creation happens
// before signing, is attempted exactly once, and a failure aborts the
// issuance with no partial result.
func (e *Engine) Issue(ctx context.Context, req TokenRequest) (*Grant, error) {
	if e == nil || e.media == nil {
		return nil, ErrEngineNotReady
	}
	if e.metrics != nil && e.metrics.LatencyEnabled() {
		start := time.Now()
		defer func() {
			e.metrics.Observe(MetricIssueLatency, time.Since(start))
		}()
	}

	agent := req.AgentName
	if agent == "" {
		agent = e.config.Agent.DefaultName
	}
	if agent == "" {
		e.metricInc(MetricIssueFailure)
		e.emitAudit(ctx, auditEventIssueRejected, false, nil, ErrAgentNotConfigured, nil)
		return nil, ErrAgentNotConfigured
	}

	desc := SessionDescriptor{
		RoomName:    ident.NewRoomName(),
		Participant: ident.NewParticipantIdentity(),
		Agent:       agent,
	}
	metadata, err := dispatchMetadata(agent, req.Customer)
	if err != nil {
		e.metricInc(MetricIssueFailure)
		e.emitAudit(ctx, auditEventIssueRejected, false, &desc, err, nil)
		return nil, errors.Join(ErrTokenSignFailed, err)
	}
	desc.Metadata = metadata

	createCtx, cancel := context.WithTimeout(ctx, e.config.Media.CallTimeout)
	defer cancel()

	if err := e.media.CreateRoom(createCtx, desc.RoomName); err != nil {
		e.metricInc(MetricRoomCreateFailed)
		e.metricInc(MetricIssueFailure)
		e.emitAudit(ctx, auditEventRoomCreateFailed, false, &desc, err, nil)
		return nil, errors.Join(ErrRoomCreateFailed, err)
	}
	e.metricInc(MetricRoomCreated)

	token, err := e.media.SignToken(ctx, desc.RoomName, desc.Participant, desc.Agent, desc.Metadata)
	if err != nil {
		e.metricInc(MetricIssueFailure)
		e.emitAudit(ctx, auditEventTokenSignFailed, false, &desc, err, nil)
		return nil, errors.Join(ErrTokenSignFailed, err)
	}

	e.metricInc(MetricTokenIssued)
	e.emitAudit(ctx, auditEventTokenIssued, true, &desc, nil, nil)

	return &Grant{
		Token:       token,
		RoomName:    desc.RoomName,
		Participant: desc.Participant,
		Agent:       desc.Agent,
	}, nil
}

// AuthorizeAndIssue runs the full request pipeline: validation strictly
// precedes issuance, so a rejected credential causes no media side effect.
func (e *Engine) AuthorizeAndIssue(ctx context.Context, credential string, req TokenRequest) (*Grant, error) {
	if err := e.Authorize(ctx, credential); err != nil {
		return nil, err
	}
	return e.Issue(ctx, req)
}

func dispatchMetadata(agent string, customer *CustomerInfo) (string, error) {
	payload := map[string]any{
		"agent": agent,
	}
	if customer != nil {
		payload["customer"] = map[string]string{
			"name":  customer.Name,
			"email": customer.Email,
		}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
