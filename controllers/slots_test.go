package controllers

import (
	"reflect"
	"testing"
	"time"

	"clinic-connect/models"
)

func TestFormatMinutes(t *testing.T) {
	cases := []struct {
		minutes       int
		expectedHours string
	}{
		{
			minutes:       15,
			expectedHours: "00:15",
		},
		{
			minutes:       30,
			expectedHours: "00:30",
		},
		{
			minutes:       60,
			expectedHours: "01:00",
		},
		{
			minutes:       545,
			expectedHours: "09:05",
		},
		{
			minutes:       875,
			expectedHours: "14:35",
		},
		{
			minutes:       1020,
			expectedHours: "17:00",
		},
	}

	for _, c := range cases {
		hours := formatMinutes(c.minutes)
		if hours != c.expectedHours {
			t.Fatalf("expected %s, got %s", c.expectedHours, hours)
		}
	}
}

func TestMinuteOffset(t *testing.T) {
	cases := []struct {
		label   string
		minutes int
		wantErr bool
	}{
		{label: "00:00", minutes: 0},
		{label: "09:05", minutes: 545},
		{label: "17:00", minutes: 1020},
		{label: "23:59", minutes: 1439},
		{label: "25:00", wantErr: true},
		{label: "9am", wantErr: true},
		{label: "", wantErr: true},
	}

	for _, c := range cases {
		minutes, err := minuteOffset(c.label)
		if c.wantErr {
			if err == nil {
				t.Fatalf("expected error for %q", c.label)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", c.label, err)
		}
		if minutes != c.minutes {
			t.Fatalf("expected %d for %q, got %d", c.minutes, c.label, minutes)
		}
	}
}

func TestGenerateSlots(t *testing.T) {
	cases := []struct {
		name       string
		start      string
		end        string
		duration   int
		breakStart string
		breakEnd   string
		slots      []string
	}{
		{
			name:     "plain morning window",
			start:    "09:00",
			end:      "11:00",
			duration: 30,
			slots:    []string{"09:00", "09:30", "10:00", "10:30"},
		},
		{
			name:       "break labels are skipped",
			start:      "09:00",
			end:        "13:00",
			duration:   60,
			breakStart: "11:00",
			breakEnd:   "12:00",
			slots:      []string{"09:00", "10:00", "12:00"},
		},
		{
			name:     "ragged final slot is dropped",
			start:    "09:00",
			end:      "10:45",
			duration: 30,
			slots:    []string{"09:00", "09:30", "10:00"},
		},
		{
			name:     "window shorter than one slot",
			start:    "09:00",
			end:      "09:15",
			duration: 30,
			slots:    []string{},
		},
		{
			name:       "break touching the window edges",
			start:      "09:00",
			end:        "12:00",
			duration:   60,
			breakStart: "09:00",
			breakEnd:   "10:00",
			slots:      []string{"10:00", "11:00"},
		},
		{
			name:       "slot ending exactly at break start stays",
			start:      "09:00",
			end:        "14:00",
			duration:   30,
			breakStart: "10:30",
			breakEnd:   "11:30",
			slots:      []string{"09:00", "09:30", "10:00", "11:30", "12:00", "12:30", "13:00", "13:30"},
		},
		{
			name:     "zero duration yields nothing",
			start:    "09:00",
			end:      "17:00",
			duration: 0,
			slots:    nil,
		},
		{
			name:     "end before start yields nothing",
			start:    "17:00",
			end:      "09:00",
			duration: 30,
			slots:    nil,
		},
		{
			name:     "unparseable start yields nothing",
			start:    "soon",
			end:      "17:00",
			duration: 30,
			slots:    nil,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			slots := generateSlots(c.start, c.end, c.duration, c.breakStart, c.breakEnd)
			if len(slots) == 0 && len(c.slots) == 0 {
				return
			}
			if !reflect.DeepEqual(slots, c.slots) {
				t.Fatalf("expected %v, got %v", c.slots, slots)
			}
		})
	}
}

func TestFilterElapsedSlots(t *testing.T) {
	now := time.Date(2026, 3, 12, 10, 30, 0, 0, time.UTC)
	slots := []string{"09:00", "10:00", "10:30", "11:00", "12:00"}

	remaining := filterElapsedSlots(slots, now)

	// A slot starting exactly now already elapsed
	expected := []string{"11:00", "12:00"}
	if !reflect.DeepEqual(remaining, expected) {
		t.Fatalf("expected %v, got %v", expected, remaining)
	}
}

func TestSlotCapacity(t *testing.T) {
	cases := []struct {
		max      int
		capacity int
	}{
		{max: 0, capacity: 1},
		{max: -3, capacity: 1},
		{max: 1, capacity: 1},
		{max: 4, capacity: 4},
	}

	for _, c := range cases {
		got := slotCapacity(models.DoctorSchedule{MaxPatientsPerSlot: c.max})
		if got != c.capacity {
			t.Fatalf("expected capacity %d for max %d, got %d", c.capacity, c.max, got)
		}
	}
}
