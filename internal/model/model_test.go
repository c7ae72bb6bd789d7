package model

import (
	"testing"
	"time"
)

func TestStatus_IsValid(t *testing.T) {
	for _, tc := range []struct {
		status Status
		want   bool
	}{
		{StatusPending, true},
		{StatusCompleted, true},
		{Status(""), false},
		{Status("open"), false},
	} {
		if got := tc.status.IsValid(); got != tc.want {
			t.Errorf("Status(%q).IsValid() = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestStatus_Toggled(t *testing.T) {
	for _, tc := range []struct {
		status Status
		want   Status
	}{
		{StatusPending, StatusCompleted},
		{StatusCompleted, StatusPending},
		{Status("bogus"), StatusPending},
	} {
		if got := tc.status.Toggled(); got != tc.want {
			t.Errorf("Status(%q).Toggled() = %q, want %q", tc.status, got, tc.want)
		}
	}
}

func TestFilter_Apply(t *testing.T) {
	notes := []*Note{
		{ID: 1, Status: StatusPending},
		{ID: 2, Status: StatusCompleted},
		{ID: 3, Status: StatusPending},
	}
	for _, tc := range []struct {
		filter Filter
		want   []int64
	}{
		{FilterAll, []int64{1, 2, 3}},
		{FilterPending, []int64{1, 3}},
		{FilterCompleted, []int64{2}},
	} {
		got := tc.filter.Apply(notes)
		if len(got) != len(tc.want) {
			t.Fatalf("%s: got %d notes, want %d", tc.filter, len(got), len(tc.want))
		}
		for i, n := range got {
			if n.ID != tc.want[i] {
				t.Errorf("%s: got[%d].ID = %d, want %d", tc.filter, i, n.ID, tc.want[i])
			}
		}
	}
	if len(notes) != 3 || notes[1].ID != 2 {
		t.Error("Apply mutated its input")
	}
}

func TestParseFilter(t *testing.T) {
	for _, tc := range []struct {
		in      string
		want    Filter
		wantErr bool
	}{
		{"", FilterAll, false},
		{"all", FilterAll, false},
		{"pending", FilterPending, false},
		{"completed", FilterCompleted, false},
		{"done", "", true},
	} {
		got, err := ParseFilter(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseFilter(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseFilter(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIdentity_DisplayName(t *testing.T) {
	if got := (&Identity{Username: "admin", FullName: "Administrator"}).DisplayName(); got != "Administrator" {
		t.Errorf("DisplayName() = %q, want Administrator", got)
	}
	if got := (&Identity{Username: "admin"}).DisplayName(); got != "admin" {
		t.Errorf("DisplayName() = %q, want admin", got)
	}
}

func TestFindNote(t *testing.T) {
	notes := []*Note{{ID: 4}, {ID: 9}}
	if n := FindNote(notes, 9); n == nil || n.ID != 9 {
		t.Errorf("FindNote(9) = %v", n)
	}
	if n := FindNote(notes, 5); n != nil {
		t.Errorf("FindNote(5) = %v, want nil", n)
	}
}

func TestSession_Expired(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	s := &Session{ExpiresAt: now.Add(time.Hour)}
	if s.Expired(now) {
		t.Error("session should not be expired before ExpiresAt")
	}
	if !s.Expired(now.Add(time.Hour)) {
		t.Error("session should be expired at ExpiresAt")
	}
}
