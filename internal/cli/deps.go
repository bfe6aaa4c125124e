package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/alfasin/ttsync/internal/config"
	"github.com/alfasin/ttsync/internal/database"
	"github.com/alfasin/ttsync/pkg/calendar"
	"github.com/alfasin/ttsync/pkg/classifier"
	"github.com/alfasin/ttsync/pkg/conflict"
	"github.com/alfasin/ttsync/pkg/daycalc"
	"github.com/alfasin/ttsync/pkg/google"
	"github.com/alfasin/ttsync/pkg/holiday"
	"github.com/alfasin/ttsync/pkg/ics"
	"github.com/alfasin/ttsync/pkg/journal"
	"github.com/alfasin/ttsync/pkg/sync"
	"github.com/alfasin/ttsync/pkg/tracker"
	log "github.com/sirupsen/logrus"
)

// app bundles everything a command needs after wiring.
type app struct {
	config  config.Application
	tracker tracker.Client
	service sync.Service
	db      *sql.DB
}

func (a *app) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Warnf("closing journal database: %v", err)
		}
	}
}

func loadConfig() (config.Application, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Application{}, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}

// newApp wires the full pipeline: tracker login, calendar sources, day
// calculator, conflict resolver and the journal.
func newApp(ctx context.Context, decide conflict.DecisionFunc) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	trackerClient := tracker.NewClient(cfg.Tracker.URL)
	if err := trackerClient.Login(ctx, cfg.Tracker.Email, cfg.Tracker.Password); err != nil {
		return nil, fmt.Errorf("time tracker login: %w", err)
	}

	workCalendar, err := newCalendarSource(ctx, cfg, cfg.Calendar.Work)
	if err != nil {
		return nil, fmt.Errorf("work calendar: %w", err)
	}
	holidayCalendar, err := newCalendarSource(ctx, cfg, cfg.Calendar.Holiday)
	if err != nil {
		return nil, fmt.Errorf("holiday calendar: %w", err)
	}

	calculator, err := newCalculator(cfg.Policy)
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(cfg.Journal.Path); err != nil {
		return nil, fmt.Errorf("migrating journal database: %w", err)
	}
	db, err := database.Open(cfg.Journal.Path)
	if err != nil {
		return nil, fmt.Errorf("opening journal database: %w", err)
	}

	service := sync.NewService(
		trackerClient,
		workCalendar,
		holidayCalendar,
		calculator,
		conflict.NewResolver(decide),
		journal.NewRepository(db),
	)

	return &app{
		config:  cfg,
		tracker: trackerClient,
		service: service,
		db:      db,
	}, nil
}

func newCalendarSource(ctx context.Context, cfg config.Application, source config.CalendarSource) (calendar.Source, error) {
	switch source.Type {
	case config.SourceGoogle:
		auth := google.NewAuth(cfg.Calendar.Google)
		return google.NewCalendar(ctx, auth, source.ID)
	case config.SourceICS:
		return ics.NewSource(source.URL), nil
	default:
		return nil, fmt.Errorf("unsupported calendar type %q", source.Type)
	}
}

func newCalculator(policy config.Policy) (*daycalc.Calculator, error) {
	vocabulary := classifier.DefaultVocabulary()
	if len(policy.OfficeKeywords) > 0 {
		vocabulary.OfficeKeywords = policy.OfficeKeywords
	}
	if len(policy.LeaveKeywords) > 0 {
		vocabulary.LeaveKeywords = policy.LeaveKeywords
	}

	holidayNames := holiday.DefaultHolidayNames()
	if len(policy.Holidays) > 0 {
		holidayNames = policy.Holidays
	}
	weekend, err := policy.WeekendDays()
	if err != nil {
		return nil, err
	}
	if len(weekend) == 0 {
		weekend = holiday.DefaultWeekend()
	}
	detector := holiday.NewDetector(holidayNames, weekend)

	calculator, err := daycalc.NewCalculator(classifier.New(vocabulary), detector, daycalc.Policy{
		WorkdayHours:    policy.WorkdayHours,
		DefaultProject:  policy.DefaultProject,
		InternalProject: policy.InternalProject,
		WorkTask:        policy.WorkTask,
		MeetingTask:     policy.MeetingTask,
		LeaveTask:       policy.LeaveTask,
	})
	if err != nil {
		return nil, err
	}
	return calculator, nil
}

// newDecision maps the --auto flag onto a conflict decision. An empty value
// prompts the user on the terminal for every conflicted day.
func newDecision(auto string) (conflict.DecisionFunc, error) {
	switch auto {
	case "":
		return conflict.NewStdPrompter(os.Stdin, os.Stdout).Decide, nil
	case string(conflict.ActionSkip):
		return conflict.Always(conflict.ActionSkip), nil
	case string(conflict.ActionReplace):
		return conflict.Always(conflict.ActionReplace), nil
	case string(conflict.ActionAdd):
		return conflict.Always(conflict.ActionAdd), nil
	default:
		return nil, fmt.Errorf("invalid --auto value %q, want skip, replace or add", auto)
	}
}
