package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty string returns local", timezone: "", wantErr: false},
		{name: "Local returns local", timezone: "Local", wantErr: false},
		{name: "valid timezone UTC", timezone: "UTC", wantErr: false},
		{name: "valid timezone America/New_York", timezone: "America/New_York", wantErr: false},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestNowInTimezone(t *testing.T) {
	now, err := NowInTimezone("America/New_York")
	if err != nil {
		t.Fatalf("NowInTimezone() error = %v", err)
	}
	if now.Location().String() != "America/New_York" {
		t.Errorf("NowInTimezone() location = %v, want America/New_York", now.Location())
	}

	if _, err := NowInTimezone("Invalid/Timezone"); err == nil {
		t.Error("NowInTimezone() expected error for invalid timezone")
	}
}

func TestCivilDay(t *testing.T) {
	tokyo, _ := time.LoadLocation("Asia/Tokyo")

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{
			name:  "late evening keeps its own date",
			input: time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC),
			want:  "2024-03-09",
		},
		{
			name:  "date is taken from the time's location",
			input: time.Date(2024, 3, 10, 1, 0, 0, 0, tokyo),
			want:  "2024-03-10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CivilDay(tt.input)
			if got.Location() != time.UTC {
				t.Errorf("CivilDay() location = %v, want UTC", got.Location())
			}
			if DayKey(got) != tt.want {
				t.Errorf("CivilDay() = %s, want %s", DayKey(got), tt.want)
			}
			if got.Hour() != 0 || got.Minute() != 0 {
				t.Errorf("CivilDay() kept time of day: %v", got)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	ny, _ := time.LoadLocation("America/New_York")

	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{
			name: "same day",
			a:    time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "forward",
			a:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC),
			want: 5,
		},
		{
			name: "backward",
			a:    time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			want: -5,
		},
		{
			name: "across DST change",
			a:    time.Date(2024, 3, 9, 0, 0, 0, 0, ny),
			b:    time.Date(2024, 3, 11, 0, 0, 0, 0, ny),
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.a, tt.b); got != tt.want {
				t.Errorf("DaysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseDay(t *testing.T) {
	day, err := ParseDay("2024-02-29")
	if err != nil {
		t.Fatalf("ParseDay() error = %v", err)
	}
	if DayKey(AddDays(day, 1)) != "2024-03-01" {
		t.Errorf("AddDays() = %s, want 2024-03-01", DayKey(AddDays(day, 1)))
	}

	if _, err := ParseDay("2024-13-01"); err == nil {
		t.Error("ParseDay() expected error for invalid month")
	}
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2024, 1, 6, 12, 0, 0, 0, time.UTC)
	clock := FixedClock{Time: at}
	if !clock.Now().Equal(at) {
		t.Errorf("FixedClock.Now() = %v, want %v", clock.Now(), at)
	}

	sys, err := NewClock("UTC")
	if err != nil {
		t.Fatalf("NewClock() error = %v", err)
	}
	if sys.Now().Location() != time.UTC {
		t.Errorf("SystemClock.Now() location = %v, want UTC", sys.Now().Location())
	}
}

func TestValidateTimezone(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		want     bool
	}{
		{name: "empty string is valid", timezone: "", want: true},
		{name: "Local is valid", timezone: "Local", want: true},
		{name: "Europe/London is valid", timezone: "Europe/London", want: true},
		{name: "random string is invalid", timezone: "not-a-timezone", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateTimezone(tt.timezone); got != tt.want {
				t.Errorf("ValidateTimezone(%q) = %v, want %v", tt.timezone, got, tt.want)
			}
		})
	}
}
