package workflow

import "testing"

func TestAdvanceFullLifecycle(t *testing.T) {
	run := NewRun("run-1")
	want := []State{StateCategorize, StateReview, StateConfirmed}

	for _, state := range want {
		if err := run.Advance(); err != nil {
			t.Fatalf("Advance: %v", err)
		}
		if run.State != state {
			t.Fatalf("State: got %s, want %s", run.State, state)
		}
	}

	if !run.Terminal() {
		t.Error("Terminal: got false, want true after confirmed")
	}
	if err := run.Advance(); err == nil {
		t.Error("Advance past confirmed: got nil error, want error")
	}
}

func TestAdvanceTo(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		to      State
		wantErr bool
	}{
		{"upload to categorize", StateUpload, StateCategorize, false},
		{"categorize to review", StateCategorize, StateReview, false},
		{"review to confirmed", StateReview, StateConfirmed, false},
		{"skip ahead", StateUpload, StateReview, true},
		{"backward", StateReview, StateCategorize, true},
		{"confirmed onward", StateConfirmed, StateUpload, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := &Run{ID: "run-2", State: tt.from}
			err := run.AdvanceTo(tt.to)
			if (err != nil) != tt.wantErr {
				t.Errorf("AdvanceTo(%s): err = %v, wantErr %v", tt.to, err, tt.wantErr)
			}
			if !tt.wantErr && run.State != tt.to {
				t.Errorf("State: got %s, want %s", run.State, tt.to)
			}
		})
	}
}

func TestReset(t *testing.T) {
	run := NewRun("run-3")
	for i := 0; i < 3; i++ {
		if err := run.Advance(); err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}

	run.Reset()
	if run.State != StateUpload {
		t.Errorf("State after Reset: got %s, want %s", run.State, StateUpload)
	}
	if run.Terminal() {
		t.Error("Terminal after Reset: got true, want false")
	}
}
