package normalize

import "testing"

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"user@example.com", "user@example.com"},
		{"USER@EXAMPLE.COM", "user@example.com"},
		{"  User@Example.Com  ", "user@example.com"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Email(tt.input)
			if got != tt.want {
				t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"City College", "City College"},
		{"  City College  ", "City College"},
		{"", ""},
		{"UPPERCASE NAME", "UPPERCASE NAME"}, // Name preserves case
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Name(tt.input)
			if got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRoleAndStatus(t *testing.T) {
	if got := Role("  Student "); got != "student" {
		t.Errorf("Role: got %q, want %q", got, "student")
	}
	if got := Status("SUSPENDED"); got != "suspended" {
		t.Errorf("Status: got %q, want %q", got, "suspended")
	}
}

func TestPlaceholderEmail(t *testing.T) {
	got := PlaceholderEmail("  State  University of Lagos ")
	want := "stateuniversityoflagos@mail.com"
	if got != want {
		t.Errorf("PlaceholderEmail: got %q, want %q", got, want)
	}
}
