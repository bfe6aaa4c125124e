package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const (
	SourceGoogle = "google"
	SourceICS    = "ics"
)

type Application struct {
	Tracker  Tracker   `koanf:"tracker"`
	Calendar Calendars `koanf:"calendar"`
	Policy   Policy    `koanf:"policy"`
	Journal  Journal   `koanf:"journal"`
}

type Tracker struct {
	URL      string `koanf:"url"`
	Email    string `koanf:"email"`
	Password string `koanf:"password"`
}

type Calendars struct {
	Work    CalendarSource `koanf:"work"`
	Holiday CalendarSource `koanf:"holiday"`
	Google  Google         `koanf:"google"`
}

// CalendarSource selects and parameterizes one calendar feed. Type is
// "google" (ID is a Google calendar id) or "ics" (URL is a feed address).
type CalendarSource struct {
	Type string `koanf:"type"`
	ID   string `koanf:"id"`
	URL  string `koanf:"url"`
}

type Google struct {
	ClientId     string `koanf:"clientid"`
	ClientSecret string `koanf:"clientsecret"`
	TokenFile    string `koanf:"tokenfile"`
}

// Policy holds the booking rules: the daily hour budget, the weekend
// definition, classification vocabularies, the named non-working holidays,
// and the ledger identifiers entries are booked against.
type Policy struct {
	WorkdayHours    float64  `koanf:"workdayhours"`
	Weekend         []string `koanf:"weekend"`
	OfficeKeywords  []string `koanf:"officekeywords"`
	LeaveKeywords   []string `koanf:"leavekeywords"`
	Holidays        []string `koanf:"holidays"`
	DefaultProject  string   `koanf:"defaultproject"`
	InternalProject string   `koanf:"internalproject"`
	WorkTask        string   `koanf:"worktask"`
	MeetingTask     string   `koanf:"meetingtask"`
	LeaveTask       string   `koanf:"leavetask"`
}

type Journal struct {
	Path string `koanf:"path"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Tracker: Tracker{
			URL: "https://tt-api.tikalk.dev",
		},
		Calendar: Calendars{
			Work:    CalendarSource{Type: SourceGoogle},
			Holiday: CalendarSource{Type: SourceGoogle},
			Google:  Google{TokenFile: "./config/google-token.json"},
		},
		Policy: Policy{
			WorkdayHours:    9,
			Weekend:         []string{"Friday", "Saturday"},
			InternalProject: "14",
			WorkTask:        "5",
			MeetingTask:     "13",
			LeaveTask:       "8",
		},
		Journal: Journal{
			Path: "./ttsync.db",
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "TTSYNC_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "TTSYNC_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}

// Validate checks the settings without which no command can work.
func (a Application) Validate() error {
	var missing []string
	if a.Tracker.Email == "" {
		missing = append(missing, "tracker.email")
	}
	if a.Tracker.Password == "" {
		missing = append(missing, "tracker.password")
	}
	if err := a.Calendar.Work.validate("calendar.work"); err != nil {
		return err
	}
	if err := a.Calendar.Holiday.validate("calendar.holiday"); err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (s CalendarSource) validate(name string) error {
	switch s.Type {
	case SourceGoogle:
		if s.ID == "" {
			return fmt.Errorf("%s.id is required for a google calendar", name)
		}
	case SourceICS:
		if s.URL == "" {
			return fmt.Errorf("%s.url is required for an ics calendar", name)
		}
	default:
		return fmt.Errorf("%s.type must be %q or %q, got %q", name, SourceGoogle, SourceICS, s.Type)
	}
	return nil
}

// WeekendDays parses the configured weekend day names.
func (p Policy) WeekendDays() ([]time.Weekday, error) {
	names := map[string]time.Weekday{
		"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
		"wednesday": time.Wednesday, "thursday": time.Thursday,
		"friday": time.Friday, "saturday": time.Saturday,
	}
	days := make([]time.Weekday, 0, len(p.Weekend))
	for _, name := range p.Weekend {
		day, ok := names[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown weekend day %q", name)
		}
		days = append(days, day)
	}
	return days, nil
}
