package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/careerforge/pitch-api/internal/domain"
)

// WizardSaver binds a DraftService to a single user so the wizard session
// can save drafts without carrying the identity itself.
type WizardSaver struct {
	drafts DraftService
	userID uuid.UUID
}

// NewWizardSaver returns a wizard.DraftSaver that saves on behalf of the
// given user.
func NewWizardSaver(drafts DraftService, userID uuid.UUID) *WizardSaver {
	return &WizardSaver{drafts: drafts, userID: userID}
}

func (b *WizardSaver) Save(ctx context.Context, id *uuid.UUID, input domain.PitchInput) (uuid.UUID, error) {
	return b.drafts.Save(ctx, b.userID, id, input)
}
