package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jobassist-backend/internal/shared/auth"
)

func TestParseResumeCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	text := "Jane Doe\njane@example.com\n5 years of experience with Go, Docker and PostgreSQL."
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"parse-resume", path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var got parsedResume
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode %q: %v", out.String(), err)
	}
	if got.MimeType != "text/plain" || got.ExperienceYears != 5 || got.Contact.Email != "jane@example.com" {
		t.Fatalf("unexpected output %+v", got)
	}
	want := map[string]bool{"Go": true, "Docker": true, "PostgreSQL": true}
	for _, s := range got.Skills {
		delete(want, s)
	}
	if len(want) != 0 {
		t.Fatalf("missing skills %v in %v", want, got.Skills)
	}
}

func TestReadJobs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.json")
	body := `[{"title":"Backend Engineer","company":"Acme","requiredSkills":["Go"],"source":"linkedin"}]`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	batch, err := readJobs(path)
	if err != nil {
		t.Fatalf("readJobs: %v", err)
	}
	if len(batch) != 1 || batch[0].Company != "Acme" || batch[0].Source != "linkedin" || len(batch[0].RequiredSkills) != 1 {
		t.Fatalf("unexpected batch %+v", batch)
	}
}

func TestCommandsRequireArgs(t *testing.T) {
	for _, name := range []string{"parse-resume", "import-jobs", "auto-apply", "token"} {
		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{name})
		if err := cmd.Execute(); err == nil {
			t.Fatalf("%s without args should fail", name)
		}
	}
}

func TestMigrateRejectsUnknownCommand(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"migrate", "sideways"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("unknown migrate command should fail before connecting")
	}
}

func TestTokenCommandMintsVerifiableToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	t.Setenv("JWT_ISSUER", "")
	t.Setenv("ENV", "dev")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"token", "user-42", "--email", "me@example.com", "--ttl", "1h"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	claims, err := auth.VerifyJWT(strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("VerifyJWT: %v", err)
	}
	if claims.Subject != "user-42" || claims.Email != "me@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}
