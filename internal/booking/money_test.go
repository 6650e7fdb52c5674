package booking

import (
	"encoding/json"
	"testing"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want Money
	}{
		{"10", 1000},
		{"10.00", 1000},
		{"12.5", 1250},
		{"0.1", 10},
		{"4,25", 425},
		{"-3.99", -399},
		{"1.005", 101},
		{"1e2", 10000},
	}
	for _, tt := range tests {
		got, err := ParseMoney(tt.in)
		if err != nil {
			t.Errorf("ParseMoney(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMoney(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "abc", "1.2.3"} {
		if _, err := ParseMoney(bad); err == nil {
			t.Errorf("ParseMoney(%q) expected error", bad)
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := map[Money]string{
		0:     "0.00",
		5:     "0.05",
		1800:  "18.00",
		-200:  "-2.00",
		-1205: "-12.05",
	}
	for m, want := range cases {
		if got := m.String(); got != want {
			t.Errorf("Money(%d).String() = %q, want %q", int64(m), got, want)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	var v struct {
		A Money `json:"a"`
		B Money `json:"b"`
		C Money `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a": 10.1, "b": "7.25", "c": null}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.A != 1010 || v.B != 725 || v.C != 0 {
		t.Fatalf("got %d %d %d", v.A, v.B, v.C)
	}

	out, err := json.Marshal(struct {
		P Money `json:"p"`
	}{P: 1999})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"p":19.99}` {
		t.Fatalf("marshal = %s", out)
	}
}

func TestPercentageOf(t *testing.T) {
	tests := []struct {
		pct  Percentage
		m    Money
		want Money
	}{
		{1000, 2000, 200},
		{1250, 1000, 125},
		{1500, 333, 50},   // 49.95 rounds up
		{1000, 1234, 123}, // 123.4 rounds down
		{1000, -1235, -124},
		{0, 5000, 0},
	}
	for _, tt := range tests {
		if got := tt.pct.Of(tt.m); got != tt.want {
			t.Errorf("%s of %s = %s, want %s", tt.pct, tt.m, got, tt.want)
		}
	}
}

func TestPercentageString(t *testing.T) {
	if got := Percentage(1000).String(); got != "10%" {
		t.Errorf("got %q", got)
	}
	if got := Percentage(1250).String(); got != "12.5%" {
		t.Errorf("got %q", got)
	}
}
