package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.001", "0.001", true},
		{" 2.50 ", "2.5", true},
		{"-1", "-1", true},
		{"0", "0", true},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"1,2.3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(dec(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(dec("10.5")); got != "10.50" {
		t.Fatalf("expected 10.50, got %s", got)
	}
}
