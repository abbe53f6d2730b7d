// Package reconcile classifies insertion responses and applies them to the
// viewer or the alert surface.
package reconcile

import (
	"log/slog"
	"net/http"

	"github.com/studiowebux/treeplot/internal/types"
	"github.com/studiowebux/treeplot/internal/viewer"
)

// Alerter shows a blocking message to the user
type Alerter interface {
	Alert(text string)
}

// AlertFunc adapts a function to Alerter
type AlertFunc func(text string)

func (f AlertFunc) Alert(text string) { f(text) }

// Classify maps a finished request onto exactly one outcome. Only a complete
// 200 response is ever shown to the user.
func Classify(result *types.RequestResult) types.Outcome {
	out := types.Outcome{Seq: result.Seq, Mode: result.Mode}
	switch {
	case result.Error != "":
		out.Kind = types.OutcomeTransportError
		out.Text = result.Error
	case result.Status != http.StatusOK:
		out.Kind = types.OutcomeTransportError
		out.Text = result.StatusText
	case viewer.IsImageURI(result.Body):
		out.Kind = types.OutcomeImage
		out.Text = result.Body
	default:
		out.Kind = types.OutcomeMessage
		out.Text = result.Body
	}
	return out
}

// Effect describes what Apply did
type Effect int

const (
	EffectNone Effect = iota
	EffectViewerCreated
	EffectViewerRefreshed
	EffectAlerted
	EffectDroppedStale
)

func (e Effect) String() string {
	switch e {
	case EffectViewerCreated:
		return "viewer created"
	case EffectViewerRefreshed:
		return "viewer refreshed"
	case EffectAlerted:
		return "alerted"
	case EffectDroppedStale:
		return "dropped stale"
	default:
		return "none"
	}
}

// Reconciler routes outcomes. It is not safe for concurrent use; call it
// from the UI loop.
type Reconciler struct {
	viewer    *viewer.Manager
	alerter   Alerter
	logger    *slog.Logger
	dropStale bool
	lastImage uint64
}

// New creates a reconciler driving vm and alerter
func New(vm *viewer.Manager, alerter Alerter) *Reconciler {
	return &Reconciler{viewer: vm, alerter: alerter, logger: slog.New(slog.DiscardHandler)}
}

// WithLogger sets the reconciler's logger
func (r *Reconciler) WithLogger(l *slog.Logger) *Reconciler {
	r.logger = l
	return r
}

// DropStale makes Apply ignore images older than the last one shown. By
// default responses are applied in completion order and the last one wins.
func (r *Reconciler) DropStale(enabled bool) *Reconciler {
	r.dropStale = enabled
	return r
}

// Apply performs the UI effect of an outcome
func (r *Reconciler) Apply(out types.Outcome) Effect {
	switch out.Kind {
	case types.OutcomeImage:
		if r.dropStale && out.Seq < r.lastImage {
			r.logger.Debug("stale image dropped", "seq", out.Seq, "last", r.lastImage)
			return EffectDroppedStale
		}
		if out.Seq > r.lastImage {
			r.lastImage = out.Seq
		}
		created, err := r.viewer.CreateOrRefresh(out.Text)
		if err != nil {
			r.logger.Warn("image could not be decoded", "seq", out.Seq, "error", err)
		}
		if created {
			return EffectViewerCreated
		}
		return EffectViewerRefreshed

	case types.OutcomeMessage:
		r.alerter.Alert(out.Text)
		return EffectAlerted

	default:
		r.logger.Debug("response dropped", "seq", out.Seq, "reason", out.Text)
		return EffectNone
	}
}

// Handle classifies and applies a result in one step
func (r *Reconciler) Handle(result *types.RequestResult) (types.Outcome, Effect) {
	out := Classify(result)
	return out, r.Apply(out)
}
