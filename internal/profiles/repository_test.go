package profiles

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryRepo_UpsertReplaces(t *testing.T) {
	repo := NewMemoryRepo()

	if _, err := repo.Get(context.Background(), "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := repo.Upsert(context.Background(), Profile{UserID: "u1", PhoneNumberID: "pn_1"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := repo.Upsert(context.Background(), Profile{UserID: "u1", PhoneNumberID: "pn_2"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	p, err := repo.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.PhoneNumberID != "pn_2" {
		t.Fatalf("expected upsert to replace phone number, got %q", p.PhoneNumberID)
	}
}
