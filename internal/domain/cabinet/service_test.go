package cabinet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"brokerdesk/internal/database"
	"brokerdesk/internal/domain/courtier"
	"brokerdesk/internal/pkg/apperr"
)

type fixture struct {
	svc       *Service
	courtiers *courtier.Service
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.ConnectMemory("cabinet_" + t.Name())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&courtier.Courtier{}, &Cabinet{}))
	return &fixture{
		svc:       NewService(NewRepository(db), zap.NewNop()),
		courtiers: courtier.NewService(courtier.NewRepository(db)),
	}
}

func (f *fixture) register(t *testing.T, id, role string) *courtier.Courtier {
	t.Helper()
	c, err := f.courtiers.Register(context.Background(), id, courtier.RegisterInput{
		Email:     id + "@cabinet.fr",
		FirstName: id,
		LastName:  "Test",
		Role:      role,
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) get(t *testing.T, id string) *courtier.Courtier {
	t.Helper()
	c, err := f.courtiers.Get(context.Background(), id)
	require.NoError(t, err)
	return c
}

// newCabinet creates a cabinet administered by "boss".
func (f *fixture) newCabinet(t *testing.T) *Cabinet {
	t.Helper()
	f.register(t, "boss", "admin")
	cab, err := f.svc.Create(context.Background(), CreateInput{Name: "Cabinet Dupont"}, "boss")
	require.NoError(t, err)
	return cab
}

func TestCreateStampsAdmin(t *testing.T) {
	f := setupFixture(t)
	cab := f.newCabinet(t)

	assert.Equal(t, "boss", cab.AdminID)
	boss := f.get(t, "boss")
	assert.True(t, boss.InCabinet(cab.ID))
	assert.True(t, boss.HasRole(courtier.RoleAdmin))
}

func TestCreateRequiresAdminRole(t *testing.T) {
	f := setupFixture(t)
	f.register(t, "plain", "")

	_, err := f.svc.Create(context.Background(), CreateInput{Name: "Nope"}, "plain")
	assert.ErrorIs(t, err, ErrNotAuthorized)
	assert.ErrorIs(t, err, apperr.ErrNotAuthorized)
	assert.Nil(t, f.get(t, "plain").CabinetID)

	_, err = f.svc.Create(context.Background(), CreateInput{Name: "Nope"}, "ghost")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.svc.Create(context.Background(), CreateInput{Name: " "}, "plain")
	assert.ErrorIs(t, err, ErrMissingName)
}

func TestCreateRejectsSecondCabinet(t *testing.T) {
	f := setupFixture(t)
	f.newCabinet(t)

	_, err := f.svc.Create(context.Background(), CreateInput{Name: "Again"}, "boss")
	assert.ErrorIs(t, err, ErrAlreadyInAnotherCabinet)
}

func TestAddMember(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	cab := f.newCabinet(t)
	f.register(t, "ann", "")

	member, err := f.svc.AddMember(ctx, cab.ID, "ann", courtier.RoleAssociate)
	require.NoError(t, err)
	assert.True(t, member.InCabinet(cab.ID))
	assert.True(t, member.HasRole(courtier.RoleAssociate))

	member, err = f.svc.AddMember(ctx, cab.ID, "ann", courtier.RoleManager)
	require.NoError(t, err)
	assert.True(t, member.HasRole(courtier.RoleManager))

	members, err := f.svc.ListMembers(ctx, cab.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestAddMemberConflicts(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	cab := f.newCabinet(t)

	f.register(t, "rival", "admin")
	other, err := f.svc.Create(ctx, CreateInput{Name: "Rival & Co"}, "rival")
	require.NoError(t, err)

	_, err = f.svc.AddMember(ctx, cab.ID, "rival", courtier.RoleEmployee)
	assert.ErrorIs(t, err, ErrAlreadyInAnotherCabinet)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.True(t, f.get(t, "rival").InCabinet(other.ID))

	_, err = f.svc.AddMember(ctx, cab.ID, "boss", courtier.RoleEmployee)
	assert.ErrorIs(t, err, ErrIsCabinetAdmin)

	_, err = f.svc.AddMember(ctx, cab.ID, "ghost", courtier.RoleEmployee)
	assert.ErrorIs(t, err, courtier.ErrCourtierNotFound)

	_, err = f.svc.AddMember(ctx, "missing", "boss", courtier.RoleEmployee)
	assert.ErrorIs(t, err, ErrCabinetNotFound)

	_, err = f.svc.AddMember(ctx, cab.ID, "boss", courtier.RoleAdmin)
	assert.ErrorIs(t, err, ErrAdminRoleViaTransfer)
}

func TestRemoveMember(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	cab := f.newCabinet(t)
	f.register(t, "ann", "")
	_, err := f.svc.AddMember(ctx, cab.ID, "ann", courtier.RoleEmployee)
	require.NoError(t, err)

	removed, err := f.svc.RemoveMember(ctx, "ann")
	require.NoError(t, err)
	assert.Nil(t, removed.CabinetID)
	assert.Nil(t, removed.Role)

	again, err := f.svc.RemoveMember(ctx, "ann")
	require.NoError(t, err)
	assert.Nil(t, again.CabinetID)

	_, err = f.svc.RemoveMember(ctx, "boss")
	assert.ErrorIs(t, err, ErrIsCabinetAdmin)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.True(t, f.get(t, "boss").InCabinet(cab.ID))
}

func TestTransferAdmin(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	cab := f.newCabinet(t)
	f.register(t, "ann", "")
	_, err := f.svc.AddMember(ctx, cab.ID, "ann", courtier.RoleAssociate)
	require.NoError(t, err)

	updated, err := f.svc.TransferAdmin(ctx, cab.ID, "ann")
	require.NoError(t, err)
	assert.Equal(t, "ann", updated.AdminID)
	assert.True(t, f.get(t, "ann").HasRole(courtier.RoleAdmin))

	boss := f.get(t, "boss")
	assert.True(t, boss.HasRole(courtier.RoleManager))
	assert.True(t, boss.InCabinet(cab.ID))

	_, err = f.svc.RemoveMember(ctx, "boss")
	require.NoError(t, err)
}

func TestTransferAdminToNonMember(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	cab := f.newCabinet(t)
	f.register(t, "outsider", "")

	_, err := f.svc.TransferAdmin(ctx, cab.ID, "outsider")
	assert.ErrorIs(t, err, ErrNotAMember)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	stored, err := f.svc.Get(ctx, cab.ID)
	require.NoError(t, err)
	assert.Equal(t, "boss", stored.AdminID)
}

func TestDeleteDetachesEveryMember(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	cab := f.newCabinet(t)
	for _, id := range []string{"ann", "bob", "cid"} {
		f.register(t, id, "")
		_, err := f.svc.AddMember(ctx, cab.ID, id, courtier.RoleEmployee)
		require.NoError(t, err)
	}

	require.NoError(t, f.svc.Delete(ctx, cab.ID))

	_, err := f.svc.Get(ctx, cab.ID)
	assert.ErrorIs(t, err, ErrCabinetNotFound)
	for _, id := range []string{"boss", "ann", "bob", "cid"} {
		c := f.get(t, id)
		assert.Nil(t, c.CabinetID, id)
		assert.Nil(t, c.Role, id)
	}

	assert.ErrorIs(t, f.svc.Delete(ctx, cab.ID), ErrCabinetNotFound)
}

func TestFindByEmail(t *testing.T) {
	f := setupFixture(t)
	f.register(t, "ann", "")

	c, err := f.svc.FindByEmail(context.Background(), " ANN@cabinet.fr ")
	require.NoError(t, err)
	assert.Equal(t, "ann", c.ID)

	_, err = f.svc.FindByEmail(context.Background(), "nobody@cabinet.fr")
	assert.ErrorIs(t, err, courtier.ErrCourtierNotFound)
}

func TestRequireAdminAndMember(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	cab := f.newCabinet(t)
	f.register(t, "ann", "")
	_, err := f.svc.AddMember(ctx, cab.ID, "ann", courtier.RoleEmployee)
	require.NoError(t, err)

	assert.NoError(t, f.svc.RequireAdmin(ctx, cab.ID, "boss"))
	assert.ErrorIs(t, f.svc.RequireAdmin(ctx, cab.ID, "ann"), ErrNotAuthorized)

	view, err := f.svc.GetForMember(ctx, cab.ID, "ann")
	require.NoError(t, err)
	assert.Len(t, view.Members, 2)

	f.register(t, "outsider", "")
	_, err = f.svc.GetForMember(ctx, cab.ID, "outsider")
	assert.ErrorIs(t, err, ErrNotCabinetMember)
}

func TestUpdate(t *testing.T) {
	f := setupFixture(t)
	cab := f.newCabinet(t)
	name, email := "Dupont & Fils", "Contact@Dupont.fr"

	updated, err := f.svc.Update(context.Background(), cab.ID, UpdateInput{Name: &name, Email: &email})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, "contact@dupont.fr", updated.Email)
}

func TestRepairMemberships(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	cab := f.newCabinet(t)
	f.register(t, "ann", "")
	_, err := f.svc.AddMember(ctx, cab.ID, "ann", courtier.RoleEmployee)
	require.NoError(t, err)

	// leave members behind as a non-transactional delete would
	require.NoError(t, f.svc.repo.db.Delete(&Cabinet{}, "id = ?", cab.ID).Error)

	n, err := f.svc.RepairMemberships(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Nil(t, f.get(t, "ann").CabinetID)
	assert.Nil(t, f.get(t, "boss").Role)

	n, err = f.svc.RepairMemberships(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
