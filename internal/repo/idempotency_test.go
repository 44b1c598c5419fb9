package repo

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestIdempotency_CreateGetAndExpiry(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	rec, err := CreateIdempotency(ctx, db, "b1", "i1", "retry-key", "sess-1", 201, time.Hour)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.SessionKey != "sess-1" || rec.Status != 201 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	got, err := GetIdempotency(ctx, db, "b1", "i1", "retry-key", now)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.SessionKey != "sess-1" {
		t.Fatalf("session key = %q; want sess-1", got.SessionKey)
	}

	// After the TTL the record is invisible.
	if _, err := GetIdempotency(ctx, db, "b1", "i1", "retry-key", now.Add(2*time.Hour)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired lookup err = %v; want ErrNotFound", err)
	}

	// Same tuple again is a duplicate.
	if _, err := CreateIdempotency(ctx, db, "b1", "i1", "retry-key", "sess-2", 201, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate create err = %v; want ErrDuplicate", err)
	}
}

func TestGetIdempotency_BlankItemRef(t *testing.T) {
	db := newRepoDB(t)
	if _, err := GetIdempotency(context.Background(), db, "b1", "  ", "k", time.Now()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("blank item ref err = %v; want ErrNotFound", err)
	}
}
