package dates

import (
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "jira timestamp in UTC",
			raw:      "2024-01-10T14:30:00.000+0000",
			expected: "2024-01-10 14:30:00",
		},
		{
			name:     "offset keeps the original wall clock",
			raw:      "2024-03-01T08:15:42.123+0200",
			expected: "2024-03-01 08:15:42",
		},
		{
			name:     "microsecond fraction",
			raw:      "2024-03-01T08:15:42.123456-0500",
			expected: "2024-03-01 08:15:42",
		},
		{
			name:     "offset with colon",
			raw:      "2024-03-01T08:15:42.123+02:00",
			expected: "2024-03-01 08:15:42",
		},
		{
			name:     "empty input",
			raw:      "",
			expected: "",
		},
		{
			name:     "garbage",
			raw:      "not a date",
			expected: "",
		},
		{
			name:     "date only",
			raw:      "2024-01-10",
			expected: "",
		},
		{
			name:     "already normalized",
			raw:      "2024-01-10 14:30:00",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.raw); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestNormalizeOutputIsFormatStable(t *testing.T) {
	inputs := []string{
		"2024-01-05T09:00:00.000+0000",
		"2023-12-31T23:59:59.999-0800",
		"2024-02-29T00:00:00.000+1400",
	}

	for _, raw := range inputs {
		t.Run(raw, func(t *testing.T) {
			normalized := Normalize(raw)
			if normalized == "" {
				t.Fatalf("expected %q to normalize", raw)
			}
			reparsed, err := time.Parse(DisplayLayout, normalized)
			if err != nil {
				t.Fatalf("normalized output %q does not parse with display layout: %v", normalized, err)
			}
			if again := reparsed.Format(DisplayLayout); again != normalized {
				t.Errorf("expected re-formatting to be a no-op, got %q from %q", again, normalized)
			}
		})
	}
}

func TestParse(t *testing.T) {
	got, err := Parse("2024-01-10T14:30:00.000+0000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := time.Date(2024, time.January, 10, 14, 30, 0, 0, time.UTC)
	if !got.Equal(expected) {
		t.Errorf("expected %s, got %s", expected, got)
	}

	if _, err := Parse("yesterday"); err == nil {
		t.Errorf("expected error for unparseable input")
	}
}
