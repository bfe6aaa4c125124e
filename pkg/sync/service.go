// Package sync drives the reconciliation pipeline: fetch calendars, compute
// per-day entries, resolve conflicts against the ledger, and apply the
// resolutions.
package sync

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/alfasin/ttsync/internal/utils"
	"github.com/alfasin/ttsync/pkg/calendar"
	"github.com/alfasin/ttsync/pkg/conflict"
	"github.com/alfasin/ttsync/pkg/daycalc"
	"github.com/alfasin/ttsync/pkg/journal"
	"github.com/alfasin/ttsync/pkg/tracker"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const yearMonthFormat = "2006-01"

// Summary aggregates the outcome of one run.
type Summary struct {
	Added          int // entries written to the ledger
	Deleted        int // existing ledger records removed
	SkippedDays    int // conflicted days the decision left untouched
	UnresolvedDays int // days dropped because their ledger state could not be read
	Failed         int // individual adds/deletes the ledger rejected
}

// Options tunes a sync run.
type Options struct {
	// DryRun computes and resolves but performs no ledger writes and keeps
	// the journal untouched.
	DryRun bool
}

type Service interface {
	SyncMonth(ctx context.Context, yearMonth string, opts Options) (Summary, error)
	SyncDate(ctx context.Context, date string, opts Options) (Summary, error)
	DeleteMonth(ctx context.Context, yearMonth string) (Summary, error)
	DeleteDate(ctx context.Context, date string) (Summary, error)
}

type ServiceImpl struct {
	tracker         tracker.Client
	workCalendar    calendar.Source
	holidayCalendar calendar.Source
	calculator      *daycalc.Calculator
	resolver        *conflict.Resolver
	journal         journal.Repository
	clock           utils.Clock
}

func NewService(
	trackerClient tracker.Client,
	workCalendar calendar.Source,
	holidayCalendar calendar.Source,
	calculator *daycalc.Calculator,
	resolver *conflict.Resolver,
	journalRepo journal.Repository,
) *ServiceImpl {
	return &ServiceImpl{
		tracker:         trackerClient,
		workCalendar:    workCalendar,
		holidayCalendar: holidayCalendar,
		calculator:      calculator,
		resolver:        resolver,
		journal:         journalRepo,
		clock:           utils.SystemClock{},
	}
}

// SyncMonth reconciles a whole month. An empty yearMonth means the current
// month; the current month is capped at today so future days are never
// booked.
func (s *ServiceImpl) SyncMonth(ctx context.Context, yearMonth string, opts Options) (Summary, error) {
	today := s.clock.Now().UTC().Truncate(24 * time.Hour)
	target := today
	if yearMonth != "" {
		parsed, err := time.Parse(yearMonthFormat, yearMonth)
		if err != nil {
			return Summary{}, fmt.Errorf("invalid month %q: %w", yearMonth, err)
		}
		target = parsed
	}

	start := time.Date(target.Year(), target.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	if end.After(today) {
		end = today
	}

	period := start.Format(yearMonthFormat)
	return s.syncRange(ctx, period, start, end, opts)
}

// SyncDate reconciles a single date.
func (s *ServiceImpl) SyncDate(ctx context.Context, date string, opts Options) (Summary, error) {
	day, err := time.Parse(calendar.DateFormat, date)
	if err != nil {
		return Summary{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return s.syncRange(ctx, date, day, day, opts)
}

func (s *ServiceImpl) syncRange(ctx context.Context, period string, start, end time.Time, opts Options) (Summary, error) {
	startDate := start.Format(calendar.DateFormat)
	endDate := end.Format(calendar.DateFormat)
	log.Infof("Syncing period %s to %s", startDate, endDate)

	from := start
	to := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, time.UTC)

	workEvents, err := s.workCalendar.GetEvents(ctx, from, to)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to fetch work calendar events: %w", err)
	}
	log.Infof("Found %d work events", len(workEvents))

	holidayEvents, err := s.holidayCalendar.GetEvents(ctx, from, to)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to fetch holiday calendar events: %w", err)
	}
	log.Infof("Found %d holiday events", len(holidayEvents))

	calculations, err := s.calculator.ComputeRange(startDate, endDate, workEvents, holidayEvents)
	if err != nil {
		return Summary{}, err
	}

	var daysWithEntries []daycalc.DayCalculation
	for _, calculation := range calculations {
		if len(calculation.Entries) > 0 {
			daysWithEntries = append(daysWithEntries, calculation)
		}
	}
	log.Infof("%d days need time entries", len(daysWithEntries))

	summary := Summary{}

	// Read the ledger state for each candidate day. A day whose state cannot
	// be read is dropped from resolution entirely: treating it as
	// conflict-free would re-add entries on top of whatever is there.
	var resolvable []daycalc.DayCalculation
	var existingReports []tracker.ExistingReport
	for _, calculation := range daysWithEntries {
		reports, err := s.tracker.GetReports(ctx, calculation.Date)
		if err != nil {
			log.Warnf("Could not fetch existing reports for %s, leaving the day unresolved: %v", calculation.Date, err)
			summary.UnresolvedDays++
			continue
		}
		resolvable = append(resolvable, calculation)
		existingReports = append(existingReports, reports.Reports...)
	}
	log.Infof("Found %d existing time entries", len(existingReports))

	resolutions, err := s.resolver.Resolve(ctx, resolvable, existingReports)
	if err != nil {
		return summary, err
	}

	runID := uuid.NewString()
	if !opts.DryRun {
		if err := s.journal.StartRun(ctx, runID, period); err != nil {
			return summary, err
		}
	}

	s.applyResolutions(ctx, runID, resolutions, opts, &summary)

	if !opts.DryRun {
		if err := s.journal.FinishRun(ctx, journal.Run{
			ID:         runID,
			Added:      summary.Added,
			Deleted:    summary.Deleted,
			Skipped:    summary.SkippedDays,
			Unresolved: summary.UnresolvedDays,
			Failed:     summary.Failed,
		}); err != nil {
			log.Warnf("Failed to finalize journal run %s: %v", runID, err)
		}
	}

	log.Infof("Sync summary: %d added, %d deleted, %d days skipped, %d days unresolved, %d failed",
		summary.Added, summary.Deleted, summary.SkippedDays, summary.UnresolvedDays, summary.Failed)
	return summary, nil
}

// applyResolutions walks the resolutions in ascending date order and applies
// them sequentially. Within a date, deletions run before additions; a failed
// deletion aborts the date's additions so a half-replaced day never ends up
// with duplicates.
func (s *ServiceImpl) applyResolutions(ctx context.Context, runID string, resolutions map[string]conflict.Resolution, opts Options, summary *Summary) {
	dates := make([]string, 0, len(resolutions))
	for date := range resolutions {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	for _, date := range dates {
		resolution := resolutions[date]

		if resolution.Action == conflict.ActionSkip {
			log.Infof("Skipped %s", date)
			summary.SkippedDays++
			s.record(ctx, opts, journal.Operation{RunID: runID, Date: date, Action: "skip", Status: journal.StatusOK})
			continue
		}

		deletesFailed := false
		for _, report := range resolution.EntriesToDelete {
			if opts.DryRun {
				log.Infof("[dry-run] Would delete entry %d on %s (%s/%s, %sh)", report.ID, date, report.Project, report.Task, tracker.FormatHours(report.Duration))
				summary.Deleted++
				continue
			}
			if err := s.tracker.DeleteTime(ctx, report.ID); err != nil {
				log.Errorf("Failed to delete entry %d on %s (%s/%s): %v", report.ID, date, report.Project, report.Task, err)
				summary.Failed++
				deletesFailed = true
				s.record(ctx, opts, journal.Operation{
					RunID: runID, Date: date, Action: "delete",
					Project: report.Project, Task: report.Task, Hours: report.Duration,
					Status: journal.StatusFailed, Error: err.Error(),
				})
				continue
			}
			log.Infof("Deleted entry %d on %s (%s/%s, %sh)", report.ID, date, report.Project, report.Task, tracker.FormatHours(report.Duration))
			summary.Deleted++
			s.record(ctx, opts, journal.Operation{
				RunID: runID, Date: date, Action: "delete",
				Project: report.Project, Task: report.Task, Hours: report.Duration,
				Status: journal.StatusOK,
			})
		}
		if deletesFailed {
			log.Warnf("Skipping additions for %s because a deletion failed", date)
			continue
		}

		for _, entry := range resolution.EntriesToAdd {
			if opts.DryRun {
				log.Infof("[dry-run] Would add %s entry for %s (%sh)", entry.Type, date, tracker.FormatHours(entry.Hours))
				summary.Added++
				continue
			}
			if err := s.tracker.AddTime(ctx, entry); err != nil {
				log.Errorf("Failed to add %s entry for %s (project %s, task %s): %v", entry.Type, date, entry.Project, entry.Task, err)
				summary.Failed++
				s.record(ctx, opts, journal.Operation{
					RunID: runID, Date: date, Action: "add",
					Project: entry.Project, Task: entry.Task, Hours: entry.Hours,
					Status: journal.StatusFailed, Error: err.Error(),
				})
				continue
			}
			log.Infof("Added %s entry for %s (%sh)", entry.Type, date, tracker.FormatHours(entry.Hours))
			summary.Added++
			s.record(ctx, opts, journal.Operation{
				RunID: runID, Date: date, Action: "add",
				Project: entry.Project, Task: entry.Task, Hours: entry.Hours,
				Status: journal.StatusOK,
			})
		}
	}
}

func (s *ServiceImpl) record(ctx context.Context, opts Options, op journal.Operation) {
	if opts.DryRun {
		return
	}
	if err := s.journal.RecordOperation(ctx, op); err != nil {
		log.Warnf("Failed to journal %s operation for %s: %v", op.Action, op.Date, err)
	}
}

// DeleteMonth removes every ledger entry in the month, day by day.
func (s *ServiceImpl) DeleteMonth(ctx context.Context, yearMonth string) (Summary, error) {
	target, err := time.Parse(yearMonthFormat, yearMonth)
	if err != nil {
		return Summary{}, fmt.Errorf("invalid month %q: %w", yearMonth, err)
	}
	start := time.Date(target.Year(), target.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return s.deleteRange(ctx, "delete "+yearMonth, start, end)
}

// DeleteDate removes every ledger entry on one date.
func (s *ServiceImpl) DeleteDate(ctx context.Context, date string) (Summary, error) {
	day, err := time.Parse(calendar.DateFormat, date)
	if err != nil {
		return Summary{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return s.deleteRange(ctx, "delete "+date, day, day)
}

func (s *ServiceImpl) deleteRange(ctx context.Context, period string, start, end time.Time) (Summary, error) {
	log.Infof("Deleting entries from %s to %s", start.Format(calendar.DateFormat), end.Format(calendar.DateFormat))

	summary := Summary{}
	runID := uuid.NewString()
	if err := s.journal.StartRun(ctx, runID, period); err != nil {
		return summary, err
	}

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(calendar.DateFormat)
		reports, err := s.tracker.GetReports(ctx, date)
		if err != nil {
			log.Warnf("Could not fetch reports for %s: %v", date, err)
			summary.UnresolvedDays++
			continue
		}
		for _, report := range reports.Reports {
			if err := s.tracker.DeleteTime(ctx, report.ID); err != nil {
				log.Errorf("Failed to delete entry %d on %s: %v", report.ID, date, err)
				summary.Failed++
				s.record(ctx, Options{}, journal.Operation{
					RunID: runID, Date: date, Action: "delete",
					Project: report.Project, Task: report.Task, Hours: report.Duration,
					Status: journal.StatusFailed, Error: err.Error(),
				})
				continue
			}
			log.Infof("Deleted %s: %s/%s (%sh)", date, report.Project, report.Task, tracker.FormatHours(report.Duration))
			summary.Deleted++
			s.record(ctx, Options{}, journal.Operation{
				RunID: runID, Date: date, Action: "delete",
				Project: report.Project, Task: report.Task, Hours: report.Duration,
				Status: journal.StatusOK,
			})
		}
	}

	if err := s.journal.FinishRun(ctx, journal.Run{
		ID:      runID,
		Deleted: summary.Deleted,
		Failed:  summary.Failed,
	}); err != nil {
		log.Warnf("Failed to finalize journal run %s: %v", runID, err)
	}

	log.Infof("Delete summary: %d deleted, %d failed", summary.Deleted, summary.Failed)
	return summary, nil
}
