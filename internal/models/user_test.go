package models

import (
	"testing"
)

func TestUser_BeforeSave(t *testing.T) {
	tests := []struct {
		name    string
		user    User
		wantErr bool
	}{
		{
			name:    "Valid user",
			user:    User{Email: "ana@example.com", FirstName: "Ana", LastName: "Diaz", PasswordHash: "hash"},
			wantErr: false,
		},
		{
			name:    "Empty email",
			user:    User{Email: "", FirstName: "Ana", LastName: "Diaz", PasswordHash: "hash"},
			wantErr: true,
		},
		{
			name:    "Malformed email",
			user:    User{Email: "ana.example.com", FirstName: "Ana", LastName: "Diaz", PasswordHash: "hash"},
			wantErr: true,
		},
		{
			name:    "Missing first name",
			user:    User{Email: "ana@example.com", FirstName: " ", LastName: "Diaz", PasswordHash: "hash"},
			wantErr: true,
		},
		{
			name:    "Missing password hash",
			user:    User{Email: "ana@example.com", FirstName: "Ana", LastName: "Diaz"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := tt.user
			err := user.BeforeSave(nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("BeforeSave() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUser_BeforeSave_NormalizesEmail(t *testing.T) {
	user := &User{Email: "  Ana@Example.COM ", FirstName: "Ana", LastName: "Diaz", PasswordHash: "hash"}
	if err := user.BeforeSave(nil); err != nil {
		t.Fatalf("BeforeSave() error = %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Errorf("Email = %q, want %q", user.Email, "ana@example.com")
	}
}

func TestTableNames(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"User", User{}.TableName(), "users"},
		{"Profile", Profile{}.TableName(), "user_profiles"},
		{"Match", Match{}.TableName(), "matches"},
		{"Waitlist", WaitlistEntry{}.TableName(), "waitlist_entries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("TableName() = %q, want %q", tt.got, tt.want)
			}
		})
	}
}
