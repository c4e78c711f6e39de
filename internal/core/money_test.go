package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"12", 1200, false},
		{"0.5", 50, false},
		{"12.345", 1234, false},
		{"12.346", 1235, false},
		{"  7,00 ", 700, false},
		{"", 0, true},
		{"-1", 0, true},
		{"+1", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
		{"0", 0, true},
		{"0.00", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDecimalToCents(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDecimalToCents(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("ParseDecimalToCents(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestMoney_JSON(t *testing.T) {
	e := Expense{Amount: Money{Cents: 2350}}
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Expense
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Amount.Cents != 2350 {
		t.Fatalf("round-trip cents = %d, want 2350", decoded.Amount.Cents)
	}
}

func TestMoney_Units(t *testing.T) {
	m := Money{Cents: 1250}
	if m.Units() != 12.5 {
		t.Fatalf("Units = %v, want 12.5", m.Units())
	}
}

func TestMoney_UnmarshalDecimalString(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    int64
		wantErr bool
	}{
		{"dot separator", `{"amount_cents":"12.34"}`, 1234, false},
		{"comma separator", `{"amount_cents":"12,34"}`, 1234, false},
		{"whole units", `{"amount_cents":"7"}`, 700, false},
		{"bare cents still work", `{"amount_cents":2350}`, 2350, false},
		{"negative rejected", `{"amount_cents":"-1.00"}`, 0, true},
		{"garbage rejected", `{"amount_cents":"abc"}`, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var e Expense
			err := json.Unmarshal([]byte(tc.payload), &e)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", tc.payload)
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if e.Amount.Cents != tc.want {
				t.Fatalf("cents = %d, want %d", e.Amount.Cents, tc.want)
			}
		})
	}
}
