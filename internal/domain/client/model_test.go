package client_test

import (
	"strings"
	"testing"

	"ironhall/internal/domain/client"
)

// TestClientValidation tests validation of Client.
func TestClientValidation(t *testing.T) {
	tests := []struct {
		name    string
		client  client.Client
		wantErr bool
	}{
		{
			name:    "valid client",
			client:  client.Client{Name: "Jo Marsh", Email: "jo@example.com", Status: client.StatusActive},
			wantErr: false,
		},
		{
			name:    "empty name",
			client:  client.Client{Name: "  ", Email: "jo@example.com", Status: client.StatusActive},
			wantErr: true,
		},
		{
			name:    "name too long",
			client:  client.Client{Name: strings.Repeat("x", 101), Email: "jo@example.com", Status: client.StatusActive},
			wantErr: true,
		},
		{
			name:    "bad email",
			client:  client.Client{Name: "Jo Marsh", Email: "nope", Status: client.StatusActive},
			wantErr: true,
		},
		{
			name:    "goals too long",
			client:  client.Client{Name: "Jo Marsh", Email: "jo@example.com", Status: client.StatusActive, Goals: strings.Repeat("g", 2001)},
			wantErr: true,
		},
		{
			name:    "bad status",
			client:  client.Client{Name: "Jo Marsh", Email: "jo@example.com", Status: "paused"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.client.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestArchiveRestore verifies archive lifecycle transitions.
func TestArchiveRestore(t *testing.T) {
	c := client.Client{Name: "Jo Marsh", Email: "jo@example.com", Status: client.StatusActive}

	if err := c.Archive(); err != nil {
		t.Fatalf("Archive failed: %v", err)
	}
	if err := c.Archive(); err != client.ErrAlreadyArchived {
		t.Errorf("second Archive = %v, want ErrAlreadyArchived", err)
	}
	if err := c.Restore(); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if !c.IsActive() {
		t.Error("client not active after Restore")
	}
	if err := c.Restore(); err != client.ErrNotArchived {
		t.Errorf("Restore on active = %v, want ErrNotArchived", err)
	}
}
