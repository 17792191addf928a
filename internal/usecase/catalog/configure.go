package catalog

import (
	"context"
	"sort"

	"github.com/veltagrid/appointments-api/internal/audit"
	domain "github.com/veltagrid/appointments-api/internal/domain/scheduling"
	"github.com/veltagrid/appointments-api/internal/httperr"
	"github.com/veltagrid/appointments-api/internal/models"
	"github.com/veltagrid/appointments-api/internal/validators"
)

// ConfigureSlots replaces the active slot set for one
// (branch, appointment type) pair. Slots dropped from the set are
// deactivated, never deleted: past appointments still reference them.
type ConfigureSlots struct {
	repo  domain.Repository
	audit Auditor
}

// Auditor mirrors the scheduling use cases' audit dependency.
type Auditor interface {
	Dispatch(ev audit.Event)
}

func NewConfigureSlots(repo domain.Repository, auditor Auditor) *ConfigureSlots {
	return &ConfigureSlots{
		repo:  repo,
		audit: auditor,
	}
}

func (uc *ConfigureSlots) Execute(
	ctx context.Context,
	branchID uint,
	appointmentTypeID uint,
	times []string,
	actorUserID *uint,
) ([]models.TimeSlot, error) {

	if len(times) == 0 {
		return nil, httperr.ErrValidation("empty_slot_set")
	}

	desired := make(map[string]bool, len(times))
	for _, hm := range times {
		if !validators.IsValidTimeOfDay(hm) {
			return nil, httperr.ErrValidation("invalid_time_format")
		}
		desired[hm] = true
	}

	branch, err := uc.repo.GetBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if !branch.Active {
		return nil, httperr.ErrNotFound("branch_not_found")
	}

	atype, err := uc.repo.GetAppointmentType(ctx, appointmentTypeID)
	if err != nil {
		return nil, err
	}
	if !atype.Active {
		return nil, httperr.ErrNotFound("appointment_type_not_found")
	}

	existing, err := uc.repo.ListCatalogSlots(ctx, branchID, appointmentTypeID)
	if err != nil {
		return nil, httperr.ErrDependency("catalog_lookup_failed")
	}

	seen := make(map[string]bool, len(existing))

	for _, slot := range existing {
		seen[slot.Time] = true

		switch {
		case desired[slot.Time] && !slot.Active:
			if err := uc.repo.SetSlotActive(ctx, slot.ID, true); err != nil {
				return nil, httperr.ErrDependency("catalog_update_failed")
			}
		case !desired[slot.Time] && slot.Active:
			if err := uc.repo.SetSlotActive(ctx, slot.ID, false); err != nil {
				return nil, httperr.ErrDependency("catalog_update_failed")
			}
		}
	}

	for hm := range desired {
		if seen[hm] {
			continue
		}
		slot := &models.TimeSlot{
			BranchID:          branchID,
			AppointmentTypeID: appointmentTypeID,
			Time:              hm,
			Active:            true,
		}
		if err := uc.repo.CreateSlot(ctx, slot); err != nil {
			return nil, httperr.ErrDependency("catalog_update_failed")
		}
	}

	uc.audit.Dispatch(audit.Event{
		BranchID: branchID,
		UserID:   actorUserID,
		Action:   "time_catalog_configured",
		Entity:   "time_slot",
		Metadata: map[string]any{
			"appointment_type_id": appointmentTypeID,
			"times":               sortedTimes(desired),
		},
	})

	return uc.repo.ListActiveSlots(ctx, branchID, appointmentTypeID)
}

func sortedTimes(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for hm := range set {
		out = append(out, hm)
	}
	sort.Strings(out)
	return out
}
