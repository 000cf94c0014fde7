package domain

import "testing"

func TestRequest_Transition(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		wantErr error
	}{
		{StatusPending, StatusAccepted, nil},
		{StatusPending, StatusRejected, nil},
		{StatusPending, StatusPending, ErrInvalidStatus},
		{StatusPending, "declined", ErrInvalidStatus},
		{StatusAccepted, StatusRejected, ErrTerminal},
		{StatusAccepted, StatusAccepted, ErrTerminal},
		{StatusRejected, StatusAccepted, ErrTerminal},
	}
	for _, tc := range tests {
		r := &Request{ID: "r1", Status: tc.from}
		if err := r.Transition(tc.to); err != tc.wantErr {
			t.Errorf("%s -> %s: err = %v, want %v", tc.from, tc.to, err, tc.wantErr)
		}
		if r.Status != tc.from {
			t.Errorf("Transition must not mutate the request")
		}
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", "accepted", "rejected"} {
		if got, err := ParseStatus(s); err != nil || string(got) != s {
			t.Errorf("ParseStatus(%q) = %q, %v", s, got, err)
		}
	}
	if _, err := ParseStatus("Accepted"); err != ErrInvalidStatus {
		t.Errorf("ParseStatus is case-sensitive, got %v", err)
	}
}

func TestStatus_Terminal(t *testing.T) {
	if StatusPending.Terminal() {
		t.Error("pending is not terminal")
	}
	if !StatusAccepted.Terminal() || !StatusRejected.Terminal() {
		t.Error("accepted and rejected are terminal")
	}
}
