package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/veltagrid/appointments-api/internal/domain/scheduling"
	"github.com/veltagrid/appointments-api/internal/httperr"
)

func lifecycleFixture(t *testing.T) (*repoStub, *auditStub, *notifyStub, uint) {
	t.Helper()

	repo := newRepoStub()
	repo.addBranch(1, "America/Bogota", true)
	repo.addType(1, true)

	day := time.Date(2026, 9, 1, 0, 0, 0, 0, bogota(t))
	ap := bookedAt(day, 9, 0)
	require.NoError(t, repo.CreateAppointment(context.Background(), ap))

	return repo, &auditStub{}, &notifyStub{}, ap.ID
}

func TestConfirmAppointment(t *testing.T) {
	repo, auditor, notifier, id := lifecycleFixture(t)
	uc := NewConfirmAppointment(repo, auditor, notifier)

	ap, err := uc.Execute(context.Background(), id, nil)

	require.NoError(t, err)
	require.Equal(t, string(domain.StatusConfirmed), ap.Status)
	require.NotNil(t, ap.ConfirmedAt)
	require.Equal(t, 1, notifier.confirmed)
	require.Len(t, auditor.events, 1)
	require.Equal(t, "appointment_confirmed", auditor.events[0].Action)
}

func TestConfirmAppointment_OnlyFromPending(t *testing.T) {
	repo, auditor, notifier, id := lifecycleFixture(t)
	uc := NewConfirmAppointment(repo, auditor, notifier)

	_, err := uc.Execute(context.Background(), id, nil)
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), id, nil)
	require.True(t, httperr.IsBusiness(err, "invalid_state"))

	kind, ok := httperr.BusinessKind(err)
	require.True(t, ok)
	require.Equal(t, httperr.KindInvalidState, kind)
}

func TestCancelAppointment_FromPendingAndConfirmed(t *testing.T) {
	for _, confirmFirst := range []bool{false, true} {
		repo, auditor, notifier, id := lifecycleFixture(t)

		if confirmFirst {
			_, err := NewConfirmAppointment(repo, auditor, notifier).
				Execute(context.Background(), id, nil)
			require.NoError(t, err)
		}

		ap, err := NewCancelAppointment(repo, auditor, notifier).
			Execute(context.Background(), id, "Cliente no puede asistir", nil)

		require.NoError(t, err)
		require.Equal(t, string(domain.StatusCancelled), ap.Status)
		require.Equal(t, "Cliente no puede asistir", ap.CancelReason)
		require.NotNil(t, ap.CancelledAt)
		require.Equal(t, 1, notifier.cancelled)
	}
}

func TestCancelAppointment_ReasonRequired(t *testing.T) {
	repo, auditor, notifier, id := lifecycleFixture(t)
	uc := NewCancelAppointment(repo, auditor, notifier)

	_, err := uc.Execute(context.Background(), id, "   ", nil)
	require.True(t, httperr.IsBusiness(err, "cancel_reason_required"))
}

func TestCancelAppointment_CompletedStaysPut(t *testing.T) {
	repo, auditor, notifier, id := lifecycleFixture(t)

	_, err := NewConfirmAppointment(repo, auditor, notifier).
		Execute(context.Background(), id, nil)
	require.NoError(t, err)

	_, err = NewCompleteAppointment(repo, auditor, notifier).
		Execute(context.Background(), id, nil)
	require.NoError(t, err)

	_, err = NewCancelAppointment(repo, auditor, notifier).
		Execute(context.Background(), id, "tarde", nil)
	require.True(t, httperr.IsBusiness(err, "invalid_state"))
}

func TestCompleteAppointment_RequiresConfirmed(t *testing.T) {
	repo, auditor, notifier, id := lifecycleFixture(t)
	uc := NewCompleteAppointment(repo, auditor, notifier)

	_, err := uc.Execute(context.Background(), id, nil)
	require.True(t, httperr.IsBusiness(err, "invalid_state"))

	_, err = NewConfirmAppointment(repo, auditor, notifier).
		Execute(context.Background(), id, nil)
	require.NoError(t, err)

	ap, err := uc.Execute(context.Background(), id, nil)
	require.NoError(t, err)
	require.Equal(t, string(domain.StatusCompleted), ap.Status)
	require.NotNil(t, ap.CompletedAt)
	require.Equal(t, 1, notifier.completed)
}

func TestDeleteAppointment_HidesFromReads(t *testing.T) {
	repo, auditor, _, id := lifecycleFixture(t)
	uc := NewDeleteAppointment(repo, auditor)

	ap, err := uc.Execute(context.Background(), id, nil)
	require.NoError(t, err)
	require.False(t, ap.IsActive)

	_, err = repo.GetAppointment(context.Background(), id)
	require.True(t, httperr.IsBusiness(err, "appointment_not_found"))

	// The row itself survives, only the flag flips.
	require.Len(t, repo.appointments, 1)
	require.False(t, repo.appointments[0].IsActive)
}

func TestDeleteAppointment_Unknown(t *testing.T) {
	repo, auditor, _, _ := lifecycleFixture(t)
	uc := NewDeleteAppointment(repo, auditor)

	_, err := uc.Execute(context.Background(), 99, nil)
	require.True(t, httperr.IsBusiness(err, "appointment_not_found"))
}
