package util

import (
	"errors"
	"testing"
)

func TestOwnerDir(t *testing.T) {
	got := OwnerDir("guest:12345")
	if got != OwnerDir(" guest:12345 ") {
		t.Fatalf("expected stable dir, got %s", got)
	}
	if got == OwnerDir("guest:12346") {
		t.Fatalf("different users share %s", got)
	}
	if len(got) != 25 || got[0] != 'u' {
		t.Fatalf("unexpected dir %q", got)
	}
	for _, ch := range got[1:] {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("dir contains non-hex character: %c", ch)
		}
	}
}

func TestSanitizeFileName(t *testing.T) {
	got, err := SanitizeFileName(" cv/final\\v2.pdf ")
	if err != nil || got != "cv_final_v2.pdf" {
		t.Fatalf("SanitizeFileName = %q, %v", got, err)
	}
	for _, bad := range []string{"", "   ", "../etc/passwd"} {
		if _, err := SanitizeFileName(bad); !errors.Is(err, ErrInvalidFileName) {
			t.Fatalf("expected ErrInvalidFileName for %q, got %v", bad, err)
		}
	}
}

func TestRandomIDUnique(t *testing.T) {
	a, b := RandomID(), RandomID()
	if a == b || len(a) != 32 {
		t.Fatalf("unexpected ids %q %q", a, b)
	}
}
