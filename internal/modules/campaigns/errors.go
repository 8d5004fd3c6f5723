package campaigns

import "github.com/skairipa08/FundEd/internal/shared/apperr"

var (
	ErrCampaignNotFound = apperr.NotFoundErr("Campaign not found")
	ErrNoProfile        = apperr.InvalidErr("You must create a student profile first", nil)
	ErrNotVerified      = apperr.ForbiddenErr("Only verified students can create campaigns")
	ErrNotOwner         = apperr.ForbiddenErr("Not authorized to modify this campaign")
	ErrInvalidCategory  = apperr.InvalidErr("Invalid category", map[string]string{"category": "Unknown category."})
	ErrInvalidStatus    = apperr.InvalidErr("Invalid status. Must be one of: active, suspended, cancelled", nil)
	ErrInvalidTarget    = apperr.InvalidErr("Target amount must be greater than 0", map[string]string{"target_amount": "Must be greater than 0."})
)
