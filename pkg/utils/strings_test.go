package utils

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0911 234 567", "+251911234567"},
		{"0911-234-567", "+251911234567"},
		{"911234567", "+251911234567"},
		{"+251911234567", "+251911234567"},
		{"251911234567", "+251911234567"},
		{"(091) 123 4567", "+251911234567"},
		{"", ""},
		{"abc", ""},
	}
	for _, tc := range cases {
		if got := NormalizePhone(tc.in); got != tc.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
