package tracker

import (
	"context"
	"fmt"
	"sync"
)

// ClientStub is an in-memory tracker Client for tests. It records every
// mutating call in order so tests can assert write sequencing.
type ClientStub struct {
	mu            sync.RWMutex
	nextID        int
	reportsByDate map[string][]ExistingReport
	projects      []Project
	operations    []string // "add <date> <project>/<task>", "delete <id>"
	loggedIn      bool
	addErrByDate  map[string]error
	getErrByDate  map[string]error
	deleteErrByID map[int]error
}

func NewClientStub() *ClientStub {
	return &ClientStub{
		nextID:        1,
		reportsByDate: make(map[string][]ExistingReport),
		addErrByDate:  make(map[string]error),
		getErrByDate:  make(map[string]error),
		deleteErrByID: make(map[int]error),
	}
}

func (c *ClientStub) Login(_ context.Context, email string, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if email == "" {
		return ErrUnauthenticated
	}
	c.loggedIn = true
	return nil
}

func (c *ClientStub) AddTime(_ context.Context, entry TimeEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.operations = append(c.operations, fmt.Sprintf("add %s %s/%s", entry.Date, entry.Project, entry.Task))
	if err := c.addErrByDate[entry.Date]; err != nil {
		return err
	}

	report := ExistingReport{
		ID:       c.nextID,
		Project:  entry.Project,
		Task:     entry.Task,
		Date:     entry.Date,
		Duration: RoundHours(entry.Hours),
		Note:     entry.Note,
	}
	c.nextID++
	c.reportsByDate[entry.Date] = append(c.reportsByDate[entry.Date], report)
	return nil
}

func (c *ClientStub) GetReports(_ context.Context, date string) (DayReports, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := c.getErrByDate[date]; err != nil {
		return DayReports{}, err
	}

	reports := make([]ExistingReport, len(c.reportsByDate[date]))
	copy(reports, c.reportsByDate[date])
	return DayReports{Reports: reports}, nil
}

func (c *ClientStub) DeleteTime(_ context.Context, id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.operations = append(c.operations, fmt.Sprintf("delete %d", id))
	if err := c.deleteErrByID[id]; err != nil {
		return err
	}

	for date, reports := range c.reportsByDate {
		for i, report := range reports {
			if report.ID == id {
				c.reportsByDate[date] = append(reports[:i], reports[i+1:]...)
				return nil
			}
		}
	}
	return ErrNotFound
}

func (c *ClientStub) GetProjects(_ context.Context) ([]Project, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	projects := make([]Project, len(c.projects))
	copy(projects, c.projects)
	return projects, nil
}

func (c *ClientStub) Health(_ context.Context) error {
	return nil
}

// Helper methods for test setup

func (c *ClientStub) SeedReport(report ExistingReport) ExistingReport {
	c.mu.Lock()
	defer c.mu.Unlock()

	if report.ID == 0 {
		report.ID = c.nextID
		c.nextID++
	} else if report.ID >= c.nextID {
		c.nextID = report.ID + 1
	}
	c.reportsByDate[report.Date] = append(c.reportsByDate[report.Date], report)
	return report
}

func (c *ClientStub) SetProjects(projects []Project) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projects = make([]Project, len(projects))
	copy(c.projects, projects)
}

func (c *ClientStub) SetAddTimeError(date string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addErrByDate[date] = err
}

func (c *ClientStub) SetGetReportsError(date string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.getErrByDate[date] = err
}

func (c *ClientStub) SetDeleteTimeError(id int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleteErrByID[id] = err
}

// Operations returns the mutating calls seen so far, in order.
func (c *ClientStub) Operations() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ops := make([]string, len(c.operations))
	copy(ops, c.operations)
	return ops
}

// ReportsOn returns the stored reports for a date.
func (c *ClientStub) ReportsOn(date string) []ExistingReport {
	c.mu.RLock()
	defer c.mu.RUnlock()
	reports := make([]ExistingReport, len(c.reportsByDate[date]))
	copy(reports, c.reportsByDate[date])
	return reports
}

// Reset clears all data
func (c *ClientStub) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID = 1
	c.reportsByDate = make(map[string][]ExistingReport)
	c.projects = nil
	c.operations = nil
	c.loggedIn = false
	c.addErrByDate = make(map[string]error)
	c.getErrByDate = make(map[string]error)
	c.deleteErrByID = make(map[int]error)
}
