package test_utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/alfasin/ttsync/pkg/tracker"
	"github.com/gorilla/mux"
)

const FakeTrackerToken = "test-token"

// FakeTracker is an in-memory HTTP implementation of the time-tracker API
// for client tests. Credentials: any non-empty email with password "secret".
type FakeTracker struct {
	Server *httptest.Server

	mu      sync.Mutex
	nextID  int
	reports map[string][]tracker.ExistingReport
	// KnownProjects lists project/task ids the fake accepts on /time/add.
	KnownProjects []tracker.Project
}

func NewFakeTracker() *FakeTracker {
	f := &FakeTracker{
		nextID:  1,
		reports: make(map[string][]tracker.ExistingReport),
		KnownProjects: []tracker.Project{
			{ID: "14", Name: "Internal", Tasks: []tracker.Task{
				{ID: "13", Name: "Meeting"},
				{ID: "8", Name: "Vacation"},
			}},
			{ID: "21", Name: "Client", Tasks: []tracker.Task{
				{ID: "5", Name: "Development"},
			}},
		},
	}

	r := mux.NewRouter()
	r.HandleFunc("/login", f.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/time/add", f.authenticated(f.handleAdd)).Methods(http.MethodPost)
	r.HandleFunc("/time/reports", f.authenticated(f.handleReports)).Methods(http.MethodGet)
	r.HandleFunc("/time/delete", f.authenticated(f.handleDelete)).Methods(http.MethodPost)
	r.HandleFunc("/user/projects", f.authenticated(f.handleProjects)).Methods(http.MethodGet)
	r.HandleFunc("/health", f.handleHealth).Methods(http.MethodGet)

	f.Server = httptest.NewServer(r)
	return f
}

func (f *FakeTracker) URL() string {
	return f.Server.URL
}

func (f *FakeTracker) Close() {
	f.Server.Close()
}

// Seed stores a report directly, bypassing the API.
func (f *FakeTracker) Seed(report tracker.ExistingReport) tracker.ExistingReport {
	f.mu.Lock()
	defer f.mu.Unlock()
	if report.ID == 0 {
		report.ID = f.nextID
		f.nextID++
	}
	f.reports[report.Date] = append(f.reports[report.Date], report)
	return report
}

func (f *FakeTracker) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+FakeTrackerToken {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next(w, r)
	}
}

func (f *FakeTracker) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" || body.Password != "secret" {
		writeError(w, http.StatusUnauthorized, "bad credentials")
		return
	}
	writeJSON(w, map[string]string{"token": FakeTrackerToken})
}

func (f *FakeTracker) handleAdd(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Date     string `json:"date"`
		Project  string `json:"project"`
		Task     string `json:"task"`
		Duration string `json:"duration"`
		Note     string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	duration, err := strconv.ParseFloat(body.Duration, 64)
	if err != nil || body.Date == "" {
		writeError(w, http.StatusBadRequest, "invalid date or duration")
		return
	}
	if !f.knowsProjectTask(body.Project, body.Task) {
		writeError(w, http.StatusUnprocessableEntity, "unknown project or task")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	report := tracker.ExistingReport{
		ID:       f.nextID,
		Project:  body.Project,
		Task:     body.Task,
		Date:     body.Date,
		Duration: duration,
		Note:     body.Note,
	}
	f.nextID++
	f.reports[body.Date] = append(f.reports[body.Date], report)
	writeJSON(w, map[string]any{"success": true, "id": report.ID})
}

func (f *FakeTracker) handleReports(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	f.mu.Lock()
	defer f.mu.Unlock()

	reports := f.reports[date]
	total := 0.0
	for _, report := range reports {
		total += report.Duration
	}
	writeJSON(w, tracker.DayReports{
		Reports:  append([]tracker.ExistingReport{}, reports...),
		DayTotal: strconv.FormatFloat(total, 'f', -1, 64),
	})
}

func (f *FakeTracker) handleDelete(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	id, err := strconv.Atoi(body.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for date, reports := range f.reports {
		for i, report := range reports {
			if report.ID == id {
				f.reports[date] = append(reports[:i], reports[i+1:]...)
				writeJSON(w, map[string]any{"success": true})
				return
			}
		}
	}
	writeError(w, http.StatusNotFound, "entry not found")
}

func (f *FakeTracker) handleProjects(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, f.KnownProjects)
}

func (f *FakeTracker) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (f *FakeTracker) knowsProjectTask(projectID, taskID string) bool {
	for _, project := range f.KnownProjects {
		if project.ID != projectID {
			continue
		}
		for _, task := range project.Tasks {
			if task.ID == taskID {
				return true
			}
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
