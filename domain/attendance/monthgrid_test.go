package attendance

import (
	"errors"
	"testing"
)

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		yearMonth string
		days      int
		first     string
		last      string
	}{
		{"2024-02", 29, "2024-02-01", "2024-02-29"}, // leap year
		{"2023-02", 28, "2023-02-01", "2023-02-28"},
		{"2024-01", 31, "2024-01-01", "2024-01-31"},
		{"2024-04", 30, "2024-04-01", "2024-04-30"},
	}

	for _, tt := range tests {
		t.Run(tt.yearMonth, func(t *testing.T) {
			dates, err := DaysInMonth(tt.yearMonth)
			if err != nil {
				t.Fatalf("DaysInMonth(%q): %v", tt.yearMonth, err)
			}
			if len(dates) != tt.days {
				t.Fatalf("len = %d, want %d", len(dates), tt.days)
			}
			if dates[0] != tt.first {
				t.Fatalf("first = %q, want %q", dates[0], tt.first)
			}
			if dates[len(dates)-1] != tt.last {
				t.Fatalf("last = %q, want %q", dates[len(dates)-1], tt.last)
			}
			for i := 1; i < len(dates); i++ {
				if dates[i-1] >= dates[i] {
					t.Fatalf("dates not ascending: %q >= %q", dates[i-1], dates[i])
				}
			}
		})
	}
}

func TestDaysInMonthInvalid(t *testing.T) {
	for _, input := range []string{"", "2024", "2024-13", "garbage", "2024-02-01"} {
		if _, err := DaysInMonth(input); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("DaysInMonth(%q) error = %v, want ErrInvalidDate", input, err)
		}
	}
}

func TestParseDay(t *testing.T) {
	if _, err := ParseDay("2024-03-01"); err != nil {
		t.Fatalf("ParseDay valid date: %v", err)
	}
	for _, input := range []string{"", "03-01-2024", "2024-02-30", "garbage"} {
		if _, err := ParseDay(input); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("ParseDay(%q) error = %v, want ErrInvalidDate", input, err)
		}
	}
}
