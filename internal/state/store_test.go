package state

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestStore_UpdateAndSnapshot(t *testing.T) {
	var s Store

	before := time.Now()
	s.Update(&Summary{Feeds: 3, Entries: 40, Unread: 7}, nil)

	snap := s.Snapshot()
	if !snap.HasSummary || snap.Summary.Feeds != 3 || snap.Summary.Unread != 7 {
		t.Fatalf("snapshot summary = %#v, want feeds=3 unread=7", snap.Summary)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update(&Summary{Feeds: 1}, nil)

	origErr := errors.New("boom")
	s.Update(nil, origErr)

	snap := s.Snapshot()
	if !snap.HasSummary || snap.Summary.Feeds != 1 {
		t.Fatalf("snapshot summary = %#v, want previous data kept", snap.Summary)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatalf("Snapshot error should wrap the original")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	if s.Snapshot().IsOffline() {
		t.Fatal("IsOffline() = true, want false with 0 failures")
	}

	s.Update(nil, errors.New("fail 1"))
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 1 || snap.IsOffline() {
		t.Fatalf("after 1 failure: failures=%d offline=%v, want 1/false", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.Update(nil, errors.New("fail 2"))
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 2 || !snap.IsOffline() {
		t.Fatalf("after 2 failures: failures=%d offline=%v, want 2/true", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.Update(&Summary{}, nil)
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("after success: failures=%d offline=%v, want 0/false", snap.ConsecutiveFailures, snap.IsOffline())
	}
}

func TestStore_SeedOnlyBeforeLivePoll(t *testing.T) {
	var s Store

	s.Seed(Summary{Feeds: 5})
	snap := s.Snapshot()
	if !snap.FromCache || snap.Summary.Feeds != 5 {
		t.Fatalf("seeded snapshot = %#v, want cached feeds=5", snap)
	}

	s.Update(&Summary{Feeds: 6}, nil)
	s.Seed(Summary{Feeds: 1})
	snap = s.Snapshot()
	if snap.FromCache || snap.Summary.Feeds != 6 {
		t.Fatalf("snapshot = %#v, want live feeds=6 untouched by Seed", snap)
	}
}
