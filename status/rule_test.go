package status

import "testing"

func TestDeriveOperational(t *testing.T) {
	tests := []struct {
		name  string
		start StartStatus
		tests TestStatus
		want  OperationalStatus
	}{
		{"both unknown", StartUnknown, TestsUnknown, OperationalUnknown},
		{"unknown start passing tests", StartUnknown, TestsPassing, OperationalUnknown},
		{"unknown start failing tests", StartUnknown, TestsFailing, OperationalUnknown},
		{"failed start unknown tests", StartFailed, TestsUnknown, OperationalOffline},
		{"failed start passing tests", StartFailed, TestsPassing, OperationalOffline},
		{"failed start failing tests", StartFailed, TestsFailing, OperationalOffline},
		{"running with passing tests", StartRunning, TestsPassing, OperationalOK},
		{"running with failing tests", StartRunning, TestsFailing, OperationalDegraded},
		{"running with unknown tests", StartRunning, TestsUnknown, OperationalDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveOperational(tt.start, tt.tests)
			if got != tt.want {
				t.Errorf("DeriveOperational(%q, %q) = %q, want %q", tt.start, tt.tests, got, tt.want)
			}
		})
	}
}

func TestValidateComponent(t *testing.T) {
	tests := []struct {
		name      string
		component string
		wantErr   error
	}{
		{"valid", "HMS-API", nil},
		{"valid with underscore", "HMS_SVC_2", nil},
		{"empty", "", ErrComponentRequired},
		{"path traversal", "../etc", ErrInvalidComponent},
		{"slash", "HMS/API", ErrInvalidComponent},
		{"backslash", `HMS\API`, ErrInvalidComponent},
		{"leading dash", "-HMS", ErrInvalidComponent},
		{"spaces", "HMS API", ErrInvalidComponent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateComponent(tt.component)
			if err != tt.wantErr {
				t.Errorf("ValidateComponent(%q) = %v, want %v", tt.component, err, tt.wantErr)
			}
		})
	}
}
