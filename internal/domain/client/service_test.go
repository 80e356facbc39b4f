package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brokerdesk/internal/pkg/apperr"
)

func strPtr(s string) *string { return &s }

func TestCreateBrokerManaged(t *testing.T) {
	svc := NewService(setupTestRepo(t))

	p, err := svc.Create(context.Background(), "broker-1", CreateInput{
		Email:     " A@B.com",
		FirstName: "Alice",
		LastName:  "Martin",
		Phone:     "0600000000",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, KindBrokerManaged, p.Kind)
	assert.Equal(t, "a@b.com", p.Email)
	assert.Equal(t, 0, p.AppointmentCount)
	require.NotNil(t, p.CreatedBy)
	assert.Equal(t, "broker-1", *p.CreatedBy)
	assert.Nil(t, p.UserID)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(setupTestRepo(t))
	ctx := context.Background()

	_, err := svc.Create(ctx, "broker-1", CreateInput{Email: "a@b.com", FirstName: "Alice"})
	assert.ErrorIs(t, err, ErrMissingName)

	_, err = svc.Create(ctx, "broker-1", CreateInput{Email: "not-an-email", FirstName: "Alice", LastName: "Martin"})
	assert.ErrorIs(t, err, ErrInvalidEmail)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdateBrokerManagedWritesOnlyGivenFields(t *testing.T) {
	svc := NewService(setupTestRepo(t))
	ctx := context.Background()

	p, err := svc.Create(ctx, "broker-1", CreateInput{Email: "a@b.com", FirstName: "Alice", LastName: "Martin", City: "Lyon"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, p.ID, UpdateInput{Phone: strPtr("0611111111"), Email: strPtr("Alice@New.com")})
	require.NoError(t, err)

	assert.Equal(t, "0611111111", updated.Phone)
	assert.Equal(t, "alice@new.com", updated.Email)
	assert.Equal(t, "Lyon", updated.City)
	assert.Equal(t, "Alice", updated.FirstName)

	_, err = svc.Update(ctx, p.ID, UpdateInput{Email: strPtr("broken")})
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestUpdateRejectsAccountHolder(t *testing.T) {
	svc := NewService(setupTestRepo(t))
	ctx := context.Background()

	holder, err := svc.RegisterAccount(ctx, "user-1", "existing@user.com", RegisterInput{Email: "existing@user.com", FirstName: "Eve", LastName: "Durand"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, holder.ID, UpdateInput{FirstName: strPtr("Mallory")})
	assert.ErrorIs(t, err, ErrAccountHolderReadOnly)
	assert.ErrorIs(t, err, apperr.ErrNotAuthorized)

	stored, err := svc.GetByID(ctx, holder.ID)
	require.NoError(t, err)
	assert.Equal(t, "Eve", stored.FirstName)
}

func TestGetByIDNotFound(t *testing.T) {
	svc := NewService(setupTestRepo(t))

	_, err := svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrClientNotFound)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRegisterAccountClaimsBrokerManagedProfile(t *testing.T) {
	svc := NewService(setupTestRepo(t))
	ctx := context.Background()

	managed, err := svc.Create(ctx, "broker-1", CreateInput{Email: "a@b.com", FirstName: "Alice", LastName: "Martin", Notes: "prefers mornings"})
	require.NoError(t, err)

	claimed, err := svc.RegisterAccount(ctx, "user-1", "a@b.com", RegisterInput{Email: "A@b.com", FirstName: "Alice", LastName: "Martin-Roy"})
	require.NoError(t, err)

	assert.Equal(t, managed.ID, claimed.ID)
	assert.Equal(t, KindAccountHolder, claimed.Kind)
	require.NotNil(t, claimed.UserID)
	assert.Equal(t, "user-1", *claimed.UserID)
	assert.Equal(t, "Martin-Roy", claimed.LastName)
	assert.True(t, claimed.EmailVerified)
	assert.Empty(t, claimed.Notes)

	res, err := NewResolver(svc.repo).Resolve(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, KindAccountHolder, res.Kind)
	assert.Equal(t, managed.ID, res.Profile.ID)
}

func TestRegisterAccountWithoutVerifiedEmailDoesNotClaim(t *testing.T) {
	svc := NewService(setupTestRepo(t))
	ctx := context.Background()

	managed, err := svc.Create(ctx, "broker-1", CreateInput{Email: "victim@x.com", FirstName: "Victor", LastName: "Lenoir", Notes: "private broker note"})
	require.NoError(t, err)

	for _, verifiedEmail := range []string{"", "other@x.com"} {
		userID := "user-" + verifiedEmail
		own, err := svc.RegisterAccount(ctx, userID, verifiedEmail, RegisterInput{Email: "victim@x.com", FirstName: "Mal", LastName: "Lory"})
		require.NoError(t, err)
		assert.NotEqual(t, managed.ID, own.ID)
		assert.False(t, own.EmailVerified)
		assert.Empty(t, own.Notes)
	}

	stored, err := svc.GetByID(ctx, managed.ID)
	require.NoError(t, err)
	assert.Equal(t, KindBrokerManaged, stored.Kind)
	assert.Nil(t, stored.UserID)
	assert.Equal(t, "private broker note", stored.Notes)

	_, err = svc.Update(ctx, managed.ID, UpdateInput{Phone: strPtr("0611111111")})
	require.NoError(t, err)

	res, err := NewResolver(svc.repo).Resolve(ctx, "victim@x.com")
	require.NoError(t, err)
	assert.Equal(t, KindBrokerManaged, res.Kind)
	assert.Equal(t, managed.ID, res.Profile.ID)
}

func TestRegisterAccountIsIdempotentAndGuardsEmail(t *testing.T) {
	svc := NewService(setupTestRepo(t))
	ctx := context.Background()

	first, err := svc.RegisterAccount(ctx, "user-1", "eve@user.com", RegisterInput{Email: "eve@user.com", FirstName: "Eve", LastName: "Durand"})
	require.NoError(t, err)

	again, err := svc.RegisterAccount(ctx, "user-1", "eve@user.com", RegisterInput{Email: "eve@user.com", FirstName: "Eve", LastName: "Durand", City: "Nantes"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "Nantes", again.City)

	_, err = svc.RegisterAccount(ctx, "user-2", "", RegisterInput{Email: "EVE@user.com", FirstName: "Not", LastName: "Eve"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestUpdateSelf(t *testing.T) {
	svc := NewService(setupTestRepo(t))
	ctx := context.Background()

	_, err := svc.RegisterAccount(ctx, "user-1", "eve@user.com", RegisterInput{Email: "eve@user.com", FirstName: "Eve", LastName: "Durand"})
	require.NoError(t, err)
	_, err = svc.RegisterAccount(ctx, "user-2", "bob@user.com", RegisterInput{Email: "bob@user.com", FirstName: "Bob", LastName: "Roux"})
	require.NoError(t, err)

	p, err := svc.UpdateSelf(ctx, "user-1", "eve@user.com", UpdateInput{Phone: strPtr("0622222222")})
	require.NoError(t, err)
	assert.Equal(t, "0622222222", p.Phone)
	assert.True(t, p.EmailVerified)

	_, err = svc.UpdateSelf(ctx, "user-1", "bob@user.com", UpdateInput{Email: strPtr("bob@user.com")})
	assert.ErrorIs(t, err, ErrEmailTaken)

	p, err = svc.UpdateSelf(ctx, "user-1", "eve@user.com", UpdateInput{Email: strPtr("eve@new.com")})
	require.NoError(t, err)
	assert.Equal(t, "eve@new.com", p.Email)
	assert.False(t, p.EmailVerified)

	_, err = svc.UpdateSelf(ctx, "user-3", "", UpdateInput{Phone: strPtr("1")})
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestIncrementAppointments(t *testing.T) {
	svc := NewService(setupTestRepo(t))
	ctx := context.Background()

	p, err := svc.Create(ctx, "broker-1", CreateInput{Email: "a@b.com", FirstName: "Alice", LastName: "Martin"})
	require.NoError(t, err)

	require.NoError(t, svc.IncrementAppointments(ctx, p.ID))
	require.NoError(t, svc.IncrementAppointments(ctx, p.ID))

	stored, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.AppointmentCount)

	assert.ErrorIs(t, svc.IncrementAppointments(ctx, "missing"), ErrClientNotFound)
}
