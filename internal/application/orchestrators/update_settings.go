package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"ironhall/internal/domain/client"
)

// ClientStoreForSettings defines the store interface needed by UpdateSettings.
type ClientStoreForSettings interface {
	GetByAccountID(ctx context.Context, accountID string) (client.Client, error)
	Save(ctx context.Context, c client.Client) error
}

// UpdateSettingsInput carries the editable profile fields.
type UpdateSettingsInput struct {
	AccountID        string
	Name             string
	Phone            string
	DateOfBirth      string
	Goals            string
	EmergencyContact string
	EmailOnDecision  bool
	PromoOptIn       bool
}

// UpdateSettingsDeps holds dependencies for UpdateSettings.
type UpdateSettingsDeps struct {
	ClientStore ClientStoreForSettings
}

// ExecuteUpdateSettings updates a client's own profile and notification preferences.
// Email and account linkage are not editable here.
// PRE: AccountID has a client profile
// POST: Profile saved with the new values
func ExecuteUpdateSettings(ctx context.Context, input UpdateSettingsInput, deps UpdateSettingsDeps) error {
	if input.AccountID == "" {
		return errors.New("account ID is required")
	}

	profile, err := deps.ClientStore.GetByAccountID(ctx, input.AccountID)
	if err != nil {
		return errors.New("client profile not found")
	}

	profile.Name = input.Name
	profile.Phone = input.Phone
	profile.DateOfBirth = input.DateOfBirth
	profile.Goals = input.Goals
	profile.EmergencyContact = input.EmergencyContact
	profile.EmailOnDecision = input.EmailOnDecision
	profile.PromoOptIn = input.PromoOptIn

	if err := profile.Validate(); err != nil {
		return err
	}
	if err := deps.ClientStore.Save(ctx, profile); err != nil {
		return err
	}

	slog.Info("settings_event", "event", "profile_updated", "client_id", profile.ID)
	return nil
}
