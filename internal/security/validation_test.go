package security

import (
	"testing"
)

func TestValidateCommandName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:    "bare binary",
			input:   "konsole",
			wantErr: false,
		},
		{
			name:    "absolute path",
			input:   "/usr/bin/gnome-terminal",
			wantErr: false,
		},
		{
			name:    "privilege helper",
			input:   "doas",
			wantErr: false,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "flag",
			input:   "-e",
			wantErr: true,
		},
		{
			name:    "with space",
			input:   "sudo -A",
			wantErr: true,
		},
		{
			name:    "command chaining",
			input:   "sudo;rm",
			wantErr: true,
		},
		{
			name:    "substitution",
			input:   "$(id)",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCommandName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCommandName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCommandArg(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"flag", "-e", false},
		{"long flag", "--hold", false},
		{"empty", "", false},
		{"pipe", "-e|sh", true},
		{"backtick", "`id`", true},
		{"newline", "-e\nreboot", true},
		{"null byte", "-e\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCommandArg(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCommandArg(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
