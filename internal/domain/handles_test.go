package domain

import "testing"

func TestNormalizeHandle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"@Unwana", "@unwana"},
		{"  jess_c ", "@jess_c"},
		{"@jess_c", "@jess_c"},
		{"ADA", "@ada"},
		{"", ""},
		{"   ", ""},
		{"@", ""},
	}
	for _, tc := range cases {
		if got := NormalizeHandle(tc.in); got != tc.want {
			t.Fatalf("NormalizeHandle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDisplayNameFromHandle(t *testing.T) {
	if got := DisplayNameFromHandle("@unwana"); got != "unwana" {
		t.Fatalf("unexpected display name %q", got)
	}
	if got := DisplayNameFromHandle("jess_c"); got != "jess_c" {
		t.Fatalf("unexpected display name %q", got)
	}
}

func TestCanTransitionStatus(t *testing.T) {
	allowed := [][2]string{
		{TxStatusConfirmed, TxStatusPaid},
		{TxStatusConfirmed, TxStatusCancelled},
		{TxStatusPaid, TxStatusUnpaid},
		{TxStatusUnpaid, TxStatusPaid},
	}
	for _, pair := range allowed {
		if !CanTransitionStatus(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s allowed", pair[0], pair[1])
		}
	}

	denied := [][2]string{
		{TxStatusPaid, TxStatusPaid},
		{TxStatusPaid, TxStatusCancelled},
		{TxStatusCancelled, TxStatusConfirmed},
		{TxStatusUnpaid, TxStatusCancelled},
		{TxStatusConfirmed, "shipped"},
	}
	for _, pair := range denied {
		if CanTransitionStatus(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s denied", pair[0], pair[1])
		}
	}
}
