package config

import (
	"os"
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		shouldSet bool
		wantPanic bool
	}{
		{
			name:      "variable set",
			key:       "TEST_VAR",
			value:     "test_value",
			shouldSet: true,
			wantPanic: false,
		},
		{
			name:      "variable not set",
			key:       "TEST_VAR_MISSING",
			shouldSet: false,
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		def   time.Duration
		want  time.Duration
	}{
		{
			name:  "valid duration",
			value: "2m",
			def:   5 * time.Minute,
			want:  2 * time.Minute,
		},
		{
			name:  "invalid duration falls back to default",
			value: "not-a-duration",
			def:   5 * time.Minute,
			want:  5 * time.Minute,
		},
		{
			name: "unset falls back to default",
			def:  300 * time.Millisecond,
			want: 300 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_DURATION_VAR"
			if tt.value != "" {
				t.Setenv(key, tt.value)
			}

			if got := mustDuration(key, tt.def); got != tt.want {
				t.Errorf("mustDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMustFloat(t *testing.T) {
	tests := []struct {
		name  string
		value string
		def   float64
		want  float64
	}{
		{
			name:  "valid float",
			value: "36.7213",
			def:   0,
			want:  36.7213,
		},
		{
			name:  "negative float",
			value: "-4.4214",
			def:   0,
			want:  -4.4214,
		},
		{
			name:  "invalid float falls back to default",
			value: "málaga",
			def:   13.5,
			want:  13.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_FLOAT_VAR"
			t.Setenv(key, tt.value)

			if got := mustFloat(key, tt.def); got != tt.want {
				t.Errorf("mustFloat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "comma separated with spaces",
			input: "https://otramalaga.org, https://www.otramalaga.org",
			want:  []string{"https://otramalaga.org", "https://www.otramalaga.org"},
		},
		{
			name:  "quoted entries",
			input: `"https://otramalaga.org",'http://localhost:5173'`,
			want:  []string{"https://otramalaga.org", "http://localhost:5173"},
		},
		{
			name:  "empty entries dropped",
			input: "a,,b,",
			want:  []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitAndTrim(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("splitAndTrim() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("splitAndTrim()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
