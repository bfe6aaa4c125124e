// Package conflict reconciles computed time entries with what the ledger
// already holds for the same dates.
package conflict

import (
	"context"
	"fmt"

	"github.com/alfasin/ttsync/pkg/daycalc"
	"github.com/alfasin/ttsync/pkg/tracker"
	log "github.com/sirupsen/logrus"
)

// Action is the outcome chosen for a conflicted date.
type Action string

const (
	// ActionSkip keeps the existing ledger entries and drops the proposal.
	ActionSkip Action = "skip"
	// ActionReplace deletes the existing entries and adds the proposal.
	ActionReplace Action = "replace"
	// ActionAdd appends the proposal next to the existing entries.
	ActionAdd Action = "add"
)

// Resolution is the per-date reconciliation plan. EntriesToDelete must be
// applied before EntriesToAdd, so a replace never inflates the day's total
// past the ledger's quota checks.
type Resolution struct {
	Action          Action
	EntriesToAdd    []tracker.TimeEntry
	EntriesToDelete []tracker.ExistingReport
}

// DecisionFunc chooses the action for a date where computed entries collide
// with existing ledger records. It sees everything a human or policy needs:
// the date, the full proposal, and the full existing state. Implementations
// may block (interactive prompt) or answer immediately (scripted policy).
type DecisionFunc func(ctx context.Context, date string, proposed []tracker.TimeEntry, existing []tracker.ExistingReport) (Action, error)

// Always returns a DecisionFunc that answers with a fixed action.
func Always(action Action) DecisionFunc {
	return func(context.Context, string, []tracker.TimeEntry, []tracker.ExistingReport) (Action, error) {
		return action, nil
	}
}

type Resolver struct {
	decide DecisionFunc
}

func NewResolver(decide DecisionFunc) *Resolver {
	return &Resolver{decide: decide}
}

// Resolve maps each date with proposed entries to a Resolution. Days with
// nothing to book are omitted. Dates without existing records resolve to an
// unconditional add; the decision callback is consulted only on genuine
// conflicts. Pure apart from the injected callback: identical inputs and
// decisions yield identical resolutions.
func (r *Resolver) Resolve(ctx context.Context, calculations []daycalc.DayCalculation, existingReports []tracker.ExistingReport) (map[string]Resolution, error) {
	resolutions := make(map[string]Resolution)

	for _, calculation := range calculations {
		if len(calculation.Entries) == 0 {
			continue
		}

		existing := reportsOn(calculation.Date, existingReports)
		if len(existing) == 0 {
			resolutions[calculation.Date] = Resolution{
				Action:       ActionAdd,
				EntriesToAdd: calculation.Entries,
			}
			continue
		}

		log.Debugf("Conflict on %s: %d proposed vs %d existing entries", calculation.Date, len(calculation.Entries), len(existing))
		action, err := r.decide(ctx, calculation.Date, calculation.Entries, existing)
		if err != nil {
			return nil, fmt.Errorf("conflict decision for %s failed: %w", calculation.Date, err)
		}

		resolution := Resolution{Action: action}
		switch action {
		case ActionSkip:
			// nothing to add, nothing to delete
		case ActionReplace:
			resolution.EntriesToAdd = calculation.Entries
			resolution.EntriesToDelete = existing
		case ActionAdd:
			resolution.EntriesToAdd = calculation.Entries
		default:
			return nil, fmt.Errorf("unknown conflict action %q for %s", action, calculation.Date)
		}
		resolutions[calculation.Date] = resolution
	}

	return resolutions, nil
}

func reportsOn(date string, reports []tracker.ExistingReport) []tracker.ExistingReport {
	var matching []tracker.ExistingReport
	for _, report := range reports {
		if report.Date == date {
			matching = append(matching, report)
		}
	}
	return matching
}
