package entity

import (
	"testing"
	"time"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestTenureIsActive(t *testing.T) {
	ended := now.AddDate(0, -1, 0)
	future := now.AddDate(0, 1, 0)

	tests := []struct {
		name   string
		tenure Tenure
		want   bool
	}{
		{"open ended", Tenure{StartDate: now.AddDate(-1, 0, 0)}, true},
		{"ends in the future", Tenure{StartDate: now.AddDate(-1, 0, 0), EndDate: &future}, true},
		{"already ended", Tenure{StartDate: now.AddDate(-1, 0, 0), EndDate: &ended}, false},
		{"not yet started", Tenure{StartDate: future}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tenure.IsActive(now); got != tt.want {
				t.Errorf("IsActive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTenureNamedHolders(t *testing.T) {
	tenure := Tenure{
		Members: []HouseholdMember{
			{ID: "person-1", IsResponsible: true},
			{ID: "person-2"},
			{ID: "person-3", IsResponsible: true},
		},
	}

	holders := tenure.NamedHolders()
	if len(holders) != 2 {
		t.Fatalf("NamedHolders() = %d members, want 2", len(holders))
	}

	if _, ok := tenure.Member("person-2"); !ok {
		t.Error("Member(person-2) not found")
	}
	if _, ok := tenure.Member("person-9"); ok {
		t.Error("Member(person-9) unexpectedly found")
	}
}

func TestPersonFullName(t *testing.T) {
	tests := []struct {
		name   string
		person Person
		want   string
	}{
		{"all parts", Person{FirstName: "Sam", MiddleName: "J", Surname: "Proposed"}, "Sam J Proposed"},
		{"no middle name", Person{FirstName: "Sam", Surname: "Proposed"}, "Sam Proposed"},
		{"surname only", Person{Surname: "Proposed"}, "Proposed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.person.FullName(); got != tt.want {
				t.Errorf("FullName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPersonIsAdult(t *testing.T) {
	tests := []struct {
		name string
		dob  time.Time
		want bool
	}{
		{"over 18", now.AddDate(-30, 0, 0), true},
		{"18 today", now.AddDate(-18, 0, 0), true},
		{"17", now.AddDate(-17, 0, 0), false},
		{"18 tomorrow", now.AddDate(-18, 0, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Person{DateOfBirth: tt.dob}
			if got := p.IsAdult(now); got != tt.want {
				t.Errorf("IsAdult() = %v, want %v", got, tt.want)
			}
		})
	}
}
