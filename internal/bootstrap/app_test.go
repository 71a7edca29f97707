package bootstrap

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"jobassist-backend/internal/shared/config"
	"jobassist-backend/internal/shared/telemetry"
)

func testApp(t *testing.T) *App {
	t.Helper()
	prev := telemetry.SetOutput(io.Discard)
	t.Cleanup(func() { telemetry.SetOutput(prev) })

	app, err := Build(config.Config{
		Env:               "test",
		ObjectStoreType:   "local",
		LocalStoreDir:     t.TempDir(),
		WorkerConcurrency: 2,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return app
}

func do(t *testing.T, app *App, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("X-Guest-Id", "flow")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func uploadResume(t *testing.T, app *App, text string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "resume.txt")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := part.Write([]byte(text)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("X-Guest-Id", "flow")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestHealthAndMetricsArePublic(t *testing.T) {
	app := testApp(t)

	for _, path := range []string{"/api/v1/health", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rec.Code)
		}
	}
}

func TestMissingIdentityIsRejected(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/applications", nil)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestEnqueueWithoutQueueIsUnavailable(t *testing.T) {
	app := testApp(t)
	if app.Queue != nil {
		t.Fatalf("expected no queue without a driver")
	}

	rec := do(t, app, http.MethodPost, "/api/v1/auto-apply/enqueue", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 body=%s", rec.Code, rec.Body.String())
	}
}

func TestAutoApplyRequiresEnabledPreference(t *testing.T) {
	app := testApp(t)

	rec := do(t, app, http.MethodPost, "/api/v1/auto-apply/run", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 body=%s", rec.Code, rec.Body.String())
	}
}

func TestAutoApplyFlow(t *testing.T) {
	app := testApp(t)

	uploadResume(t, app, "Jane Doe\n6 years of experience building Go services with PostgreSQL and Docker.")

	rec := do(t, app, http.MethodPost, "/api/v1/jobs", map[string]any{
		"title":          "Backend Engineer",
		"company":        "Acme",
		"location":       "Remote",
		"source":         "linkedin",
		"requiredSkills": []string{"Go", "Docker"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create job status = %d body=%s", rec.Code, rec.Body.String())
	}
	rec = do(t, app, http.MethodPost, "/api/v1/jobs", map[string]any{
		"title":          "Designer",
		"company":        "Globex",
		"location":       "Remote",
		"source":         "indeed",
		"requiredSkills": []string{"Figma", "Sketch"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create job status = %d body=%s", rec.Code, rec.Body.String())
	}

	rec = do(t, app, http.MethodPut, "/api/v1/preferences", map[string]any{
		"autoApplyEnabled":      true,
		"minMatchScore":         50,
		"dailyApplicationLimit": 5,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("preferences status = %d body=%s", rec.Code, rec.Body.String())
	}

	var first struct {
		Success      bool `json:"success"`
		Applications int  `json:"applications"`
		AppliedJobs  []struct {
			Company    string `json:"company"`
			MatchScore int    `json:"matchScore"`
		} `json:"appliedJobs"`
	}
	rec = do(t, app, http.MethodPost, "/api/v1/auto-apply/run", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("run status = %d body=%s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &first)
	if !first.Success || first.Applications != 1 || first.AppliedJobs[0].Company != "Acme" || first.AppliedJobs[0].MatchScore != 100 {
		t.Fatalf("unexpected first run %+v", first)
	}

	var second struct {
		Applications int `json:"applications"`
	}
	rec = do(t, app, http.MethodPost, "/api/v1/auto-apply/run", nil)
	decode(t, rec, &second)
	if second.Applications != 0 {
		t.Fatalf("second run applied again: %s", rec.Body.String())
	}

	var list struct {
		Items []struct {
			Status      string `json:"status"`
			AutoApplied bool   `json:"autoApplied"`
		} `json:"items"`
	}
	rec = do(t, app, http.MethodGet, "/api/v1/applications", nil)
	decode(t, rec, &list)
	if len(list.Items) != 1 || !list.Items[0].AutoApplied {
		t.Fatalf("applications = %s", rec.Body.String())
	}
}

func TestSweepUsesPreferences(t *testing.T) {
	app := testApp(t)

	s := app.Sweep(true)
	if s.Queue != nil {
		t.Fatalf("sweep should not enqueue without a configured queue")
	}
	if s.Users == nil || s.Runner == nil || s.Concurrency != 2 {
		t.Fatalf("unexpected sweep %+v", s)
	}
}
