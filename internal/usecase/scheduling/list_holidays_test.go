package scheduling

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veltagrid/appointments-api/internal/httperr"
)

func TestListHolidays(t *testing.T) {
	repo := newRepoStub()
	branch := uint(1)
	repo.addHoliday(nil, "2026-12-25", "Navidad")
	repo.addHoliday(&branch, "2026-08-07", "Batalla de Boyacá")
	repo.addHoliday(nil, "2027-01-01", "Año Nuevo")

	uc := NewListHolidays(repo)

	out, err := uc.Execute(context.Background(), "2026-01-01", "2026-12-31")
	require.NoError(t, err)
	require.Len(t, out, 2)

	// Ascending, both bounds inclusive, branch-scoped rows included.
	require.Equal(t, "Batalla de Boyacá", out[0].Name)
	require.Equal(t, "Navidad", out[1].Name)
	require.Equal(t, &branch, out[0].BranchID)
	require.Nil(t, out[1].BranchID)
}

func TestListHolidays_BoundsInclusive(t *testing.T) {
	repo := newRepoStub()
	repo.addHoliday(nil, "2026-12-25", "Navidad")

	uc := NewListHolidays(repo)

	out, err := uc.Execute(context.Background(), "2026-12-25", "2026-12-25")
	require.NoError(t, err)
	require.Len(t, out, 1)
}

func TestListHolidays_BadRange(t *testing.T) {
	uc := NewListHolidays(newRepoStub())

	_, err := uc.Execute(context.Background(), "", "2026-12-31")
	require.True(t, httperr.IsBusiness(err, "missing_range"))

	_, err = uc.Execute(context.Background(), "25/12/2026", "2026-12-31")
	require.True(t, httperr.IsBusiness(err, "invalid_date"))

	_, err = uc.Execute(context.Background(), "2026-12-31", "2026-01-01")
	require.True(t, httperr.IsBusiness(err, "invalid_range"))
}
