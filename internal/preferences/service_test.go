package preferences

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestGetReturnsDefaults(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	p, err := svc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.AutoApplyEnabled || p.MinMatchScore != 60 || p.DailyApplicationLimit != 10 {
		t.Fatalf("unexpected defaults %+v", p)
	}
	if !reflect.DeepEqual(p.PreferredSources, []string{"linkedin", "indeed", "naukri"}) {
		t.Fatalf("default sources = %v", p.PreferredSources)
	}
	if _, err := svc.Find(context.Background(), "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Find should not invent preferences, got %v", err)
	}
}

func TestUpdateValidatesAndLists(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	bad := []Preference{
		{MinMatchScore: 101},
		{DailyApplicationLimit: -1},
		{PreferredSources: []string{"monster"}},
		{JobTypes: []string{"gig"}},
		{SalaryRange: SalaryRange{Min: 10, Max: 5}},
	}
	for _, p := range bad {
		if _, err := svc.Update(ctx, "u1", p); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", p, err)
		}
	}

	p := Defaults("ignored")
	p.AutoApplyEnabled = true
	p.TargetLocations = []string{" Remote ", ""}
	saved, err := svc.Update(ctx, "u2", p)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if saved.UserID != "u2" || !reflect.DeepEqual(saved.TargetLocations, []string{"Remote"}) {
		t.Fatalf("saved = %+v", saved)
	}
	if _, err := svc.Update(ctx, "u3", Defaults("u3")); err != nil {
		t.Fatalf("Update u3: %v", err)
	}

	ids, err := svc.ListAutoApplyEnabled(ctx)
	if err != nil {
		t.Fatalf("ListAutoApplyEnabled: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"u2"}) {
		t.Fatalf("enabled users = %v", ids)
	}
}
