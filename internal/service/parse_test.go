package service

import (
	"errors"
	"testing"
)

func TestParseRaceDistance(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		wantErr  bool
	}{
		{"5k", 5000, false},
		{"5K", 5000, false},
		{" 10k ", 10000, false},
		{"half", 21097.5, false},
		{"marathon", 42195, false},
		{"mile", 1609.34, false},
		{"3000", 3000, false},
		{"3000m", 3000, false},
		{"15km", 15000, false},
		{"7.5km", 7500, false},
		{"", 0, true},
		{"ultra", 0, true},
		{"-5km", 0, true},
		{"0", 0, true},
		{"nan", 0, true},
		{"NaN", 0, true},
		{"inf", 0, true},
		{"+Inf", 0, true},
		{"infinitykm", 0, true},
		{"1e400", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRaceDistance(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPerformance) {
					t.Errorf("ParseRaceDistance(%q) error = %v, want ErrInvalidPerformance", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRaceDistance(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseRaceDistance(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseRaceTime(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		wantErr  bool
	}{
		{"20:00", 1200, false},
		{"14:30", 870, false},
		{"3:00:00", 10800, false},
		{"1:29:59", 5399, false},
		{"95", 95, false},
		{"4:05.5", 245.5, false},
		{"", 0, true},
		{"0:00", 0, true},
		{"20:75", 0, true},
		{"1:2:3:4", 0, true},
		{"abc", 0, true},
		{"-1:00", 0, true},
		{"inf", 0, true},
		{"nan", 0, true},
		{"1:nan", 0, true},
		{"Inf:00", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRaceTime(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPerformance) {
					t.Errorf("ParseRaceTime(%q) error = %v, want ErrInvalidPerformance", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRaceTime(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseRaceTime(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
