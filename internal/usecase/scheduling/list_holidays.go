package scheduling

import (
	"context"
	"time"

	domain "github.com/veltagrid/appointments-api/internal/domain/scheduling"
	"github.com/veltagrid/appointments-api/internal/httperr"
	"github.com/veltagrid/appointments-api/internal/models"
	"github.com/veltagrid/appointments-api/internal/validators"
)

type ListHolidays struct {
	repo domain.Repository
}

func NewListHolidays(
	repo domain.Repository,
) *ListHolidays {
	return &ListHolidays{
		repo: repo,
	}
}

// Execute lists holidays inside [from, to], both bounds inclusive,
// ascending by date. Company-wide and branch-scoped rows are returned
// together; the caller sees the scope through the nullable branch id.
func (uc *ListHolidays) Execute(
	ctx context.Context,
	fromStr string,
	toStr string,
) ([]models.Holiday, error) {

	if fromStr == "" || toStr == "" {
		return nil, httperr.ErrValidation("missing_range")
	}
	if !validators.IsValidDate(fromStr) || !validators.IsValidDate(toStr) {
		return nil, httperr.ErrValidation("invalid_date")
	}

	from, _ := time.Parse(validators.DateLayout, fromStr)
	to, _ := time.Parse(validators.DateLayout, toStr)

	if to.Before(from) {
		return nil, httperr.ErrValidation("invalid_range")
	}

	holidays, err := uc.repo.ListHolidays(ctx, from, to)
	if err != nil {
		return nil, httperr.ErrDependency("holiday_lookup_failed")
	}

	return holidays, nil
}
