package cli

import (
	"reflect"
	"testing"

	"github.com/mbenson/tracker/internal/constants"
)

func TestParseFrequency(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{name: "daily sentinel", input: "daily", want: []string{constants.FrequencyDaily}},
		{name: "daily mixed case", input: " Daily ", want: []string{constants.FrequencyDaily}},
		{name: "weekday tags", input: "mon,wed,fri", want: []string{"Mon", "Wed", "Fri"}},
		{name: "full names", input: "monday,friday", want: []string{"Mon", "Fri"}},
		{name: "spaces and case", input: "TUE, Thu", want: []string{"Tue", "Thu"}},
		{name: "invalid day", input: "mon,funday", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFrequency(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParseWeekday(t *testing.T) {
	if day, err := ParseWeekday("mon"); err != nil || day != "Monday" {
		t.Fatalf("expected Monday, got %q (%v)", day, err)
	}
	if day, err := ParseWeekday("Wednesday"); err != nil || day != "Wednesday" {
		t.Fatalf("expected Wednesday, got %q (%v)", day, err)
	}
	if _, err := ParseWeekday("noday"); err == nil {
		t.Fatal("expected error for invalid weekday")
	}
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2026-09-01"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseDate(""); err != nil {
		t.Fatal("empty date should be allowed")
	}
	if _, err := ParseDate("01/09/2026"); err == nil {
		t.Fatal("expected error for wrong format")
	}
}
