package redact

import "testing"

func TestRedact(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"email",
			"Contact ravi.kumar@example.com for queries",
			"Contact [EMAIL] for queries",
		},
		{
			"ifsc code",
			"NEFT via HDFC0001234 branch",
			"NEFT via [IFSC] branch",
		},
		{
			"mobile with +91 prefix",
			"Call +919876543210 now",
			"Call [MOBILE] now",
		},
		{
			"mobile with zero prefix",
			"Registered: 09876543210",
			"Registered: [MOBILE]",
		},
		{
			"bare mobile",
			"Mobile 9876543210 on file",
			"Mobile [MOBILE] on file",
		},
		{
			"plus sign fully consumed",
			"+918123456789",
			"[MOBILE]",
		},
		{
			"account number",
			"A/c 123456789012 credited",
			"A/c [ACC_NO] credited",
		},
		{
			"currency amount survives",
			"Balance: 123456789.00",
			"Balance: 123456789.00",
		},
		{
			"ten digit amount starting 6-9 survives",
			"Paid 9876543210.50 to builder",
			"Paid 9876543210.50 to builder",
		},
		{
			"mobile next to an amount",
			"ph 9876543210 paid 9123456789.00",
			"ph [MOBILE] paid 9123456789.00",
		},
		{
			"account and amount on one line",
			"A/c 987654321098 balance 123456789.00",
			"A/c [ACC_NO] balance 123456789.00",
		},
		{
			"short digit runs untouched",
			"OTP 123456 and pin 4321",
			"OTP 123456 and pin 4321",
		},
		{
			"no pii",
			"UPI payment to grocer",
			"UPI payment to grocer",
		},
		{
			"everything at once",
			"ravi@x.in IFSC SBIN0554433 ph 9876543210 ac 111122223333",
			"[EMAIL] IFSC [IFSC] ph [MOBILE] ac [ACC_NO]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Redact(tt.input)
			if got != tt.want {
				t.Errorf("Redact(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRedactIdempotent(t *testing.T) {
	inputs := []string{
		"ravi@x.in HDFC0001234 +919876543210 123456789012",
		"Balance: 123456789.00",
		"plain text with nothing to hide",
	}
	for _, in := range inputs {
		once := Redact(in)
		twice := Redact(once)
		if once != twice {
			t.Errorf("Redact not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestRedactLongRunNotMistakenForMobile(t *testing.T) {
	// 11+ digit runs starting 6-9 are account numbers, not mobiles.
	got := Redact("ref 68012345678901")
	if got != "ref [ACC_NO]" {
		t.Errorf("got %q, want %q", got, "ref [ACC_NO]")
	}
}
