package catalog

import (
	"context"

	domain "github.com/veltagrid/appointments-api/internal/domain/scheduling"
	"github.com/veltagrid/appointments-api/internal/httperr"
	"github.com/veltagrid/appointments-api/internal/models"
)

type GetSlots struct {
	repo domain.Repository
}

func NewGetSlots(repo domain.Repository) *GetSlots {
	return &GetSlots{repo: repo}
}

func (uc *GetSlots) Execute(
	ctx context.Context,
	branchID uint,
	appointmentTypeID uint,
) ([]models.TimeSlot, error) {

	branch, err := uc.repo.GetBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if !branch.Active {
		return nil, httperr.ErrNotFound("branch_not_found")
	}

	slots, err := uc.repo.ListActiveSlots(ctx, branchID, appointmentTypeID)
	if err != nil {
		return nil, httperr.ErrDependency("catalog_lookup_failed")
	}

	return slots, nil
}
