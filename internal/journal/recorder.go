package journal

import (
	"context"
	"log/slog"

	"nodetree/internal/session"
)

// Recorder adapts a Journal to session.Recorder. Write failures are logged and never
// reach the editing session.
type Recorder struct {
	j   *Journal
	ctx context.Context
	log *slog.Logger
}

// Recorder returns a session.Recorder writing to j.
func (j *Journal) Recorder(ctx context.Context, log *slog.Logger) *Recorder {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Recorder{j: j, ctx: ctx, log: log}
}

func (r *Recorder) RecordIntent(rec session.Record) {
	_, err := r.j.Record(r.ctx, Entry{
		Intent:  string(rec.Intent),
		NodeID:  rec.NodeID,
		Outcome: rec.Outcome.String(),
		Detail:  rec.Detail,
	})
	if err != nil {
		r.log.Warn("journal write failed", "intent", string(rec.Intent), "err", err)
	}
}
