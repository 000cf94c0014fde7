package mfa

import (
	"testing"
)

func TestGenerateOTP_ReturnsSixDigits(t *testing.T) {
	for i := 0; i < 50; i++ {
		otp, err := GenerateOTP()
		if err != nil {
			t.Fatalf("GenerateOTP: %v", err)
		}
		if len(otp) != 6 {
			t.Fatalf("OTP %q length = %d, want 6", otp, len(otp))
		}
		for _, c := range otp {
			if c < '0' || c > '9' {
				t.Fatalf("OTP %q contains non-digit %c", otp, c)
			}
		}
	}
}

func TestGenerateOTP_NotConstant(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		otp, err := GenerateOTP()
		if err != nil {
			t.Fatalf("GenerateOTP: %v", err)
		}
		seen[otp] = true
	}
	if len(seen) < 2 {
		t.Error("GenerateOTP returned the same code 20 times")
	}
}

func TestHashOTP(t *testing.T) {
	h := HashOTP("123456")
	if h != HashOTP("123456") {
		t.Error("HashOTP not consistent")
	}
	if len(h) != 64 {
		t.Errorf("hash length = %d, want 64 (SHA-256 hex)", len(h))
	}
	if h == HashOTP("654321") {
		t.Error("HashOTP produced same hash for different inputs")
	}
}

func TestOTPEqual(t *testing.T) {
	stored := HashOTP("123456")
	tests := []struct {
		name   string
		otp    string
		stored string
		want   bool
	}{
		{"correct", "123456", stored, true},
		{"wrong", "654321", stored, false},
		{"different length hash", "123456", "a" + stored, false},
		{"empty otp", "", stored, false},
		{"empty both", "", "", false},
	}
	for _, tc := range tests {
		if got := OTPEqual(tc.otp, tc.stored); got != tc.want {
			t.Errorf("%s: OTPEqual = %v, want %v", tc.name, got, tc.want)
		}
	}
}
