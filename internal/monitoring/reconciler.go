package monitoring

import (
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// LikeReconciler repairs likes/likedBy drift. Implemented by the prompt
// service.
type LikeReconciler interface {
	ReconcileLikeCounts() (int, error)
}

// Reconciler runs the likes/likedBy drift sweep on a cron schedule. The
// counters update endpoint applies absolute values, so concurrent writes can
// leave the likes counter out of step with the likedBy set; this restores
// the invariant after the fact.
type Reconciler struct {
	prompts  LikeReconciler
	schedule string
	cron     *cron.Cron
}

// NewReconciler creates a reconciler with a standard cron schedule
// expression, e.g. "@every 10m".
func NewReconciler(prompts LikeReconciler, schedule string) *Reconciler {
	return &Reconciler{prompts: prompts, schedule: schedule}
}

// Run sweeps once immediately, then on the configured schedule.
func (r *Reconciler) Run() error {
	log.Info().Str("schedule", r.schedule).Msg("Starting counter reconciler...")
	r.Sweep()

	r.cron = cron.New()
	if _, err := r.cron.AddFunc(r.schedule, r.Sweep); err != nil {
		return err
	}
	r.cron.Start()
	return nil
}

// Stop halts the scheduled sweeps. Safe to call when Run failed.
func (r *Reconciler) Stop() {
	if r.cron != nil {
		r.cron.Stop()
	}
}

// Sweep runs one reconciliation pass.
func (r *Reconciler) Sweep() {
	repaired, err := r.prompts.ReconcileLikeCounts()
	if err != nil {
		log.Error().Err(err).Msg("Counter reconciliation failed")
		return
	}
	if repaired > 0 {
		log.Warn().Int("repaired", repaired).Msg("Repaired drifted like counters")
	}
}
