package services

import (
	"context"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maintenance-system/internal/dto"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
)

func newUserServiceFixture() (UserServiceInterface, *fakeUserRepo, *fakeTeamRepo) {
	userRepo := newFakeUserRepo()
	teamRepo := newFakeTeamRepo()
	svc := NewUserService(userRepo, teamRepo, zap.NewNop())
	return svc, userRepo, teamRepo
}

func TestCreateUser_TeamRequiredForWorkerAndTechnician(t *testing.T) {
	svc, _, _ := newUserServiceFixture()

	ctx := ctxWithActor(1, constants.RoleAdmin, nil)
	for _, role := range []string{constants.RoleWorker, constants.RoleTechnician} {
		_, err := svc.CreateUser(ctx, dto.CreateUserDTO{
			Name: "Иван Петров", Email: "ivan@maintenance.local",
			Password: "secret123", Role: role,
		})
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation), "роль %q без бригады не заводится", role)
	}
}

func TestCreateUser_UnknownTeam(t *testing.T) {
	svc, _, _ := newUserServiceFixture()

	teamID := uint64(999)
	_, err := svc.CreateUser(ctxWithActor(1, constants.RoleAdmin, nil), dto.CreateUserDTO{
		Name: "Иван Петров", Email: "ivan@maintenance.local",
		Password: "secret123", Role: constants.RoleTechnician, TeamID: &teamID,
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestCreateUser_Success(t *testing.T) {
	svc, userRepo, teamRepo := newUserServiceFixture()

	teamID, err := teamRepo.CreateTeam(context.Background(), dto.CreateTeamDTO{Name: "Электрическая бригада"})
	require.NoError(t, err)

	created, err := svc.CreateUser(ctxWithActor(1, constants.RoleAdmin, nil), dto.CreateUserDTO{
		Name: "Сергей Смирнов", Email: "tech-elec@maintenance.local",
		Password: "secret123", Role: constants.RoleTechnician, TeamID: &teamID,
		AvatarURL: null.StringFrom("https://example.org/avatar.png"),
	})

	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	require.NotNil(t, created.TeamID)
	assert.Equal(t, teamID, *created.TeamID)
	assert.Equal(t, "https://example.org/avatar.png", created.AvatarURL.String)

	stored, err := userRepo.FindUserByEmail(context.Background(), "tech-elec@maintenance.local")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.Password, "пароль не хранится открытым текстом")
}

func TestCreateUser_RequiresActor(t *testing.T) {
	svc, _, _ := newUserServiceFixture()

	// Без актора в контексте (анонимный запрос) создание недоступно.
	_, err := svc.CreateUser(context.Background(), dto.CreateUserDTO{
		Name: "Аноним", Email: "anon@maintenance.local",
		Password: "secret123", Role: constants.RoleManager,
	})
	assert.ErrorIs(t, err, apperrors.ErrActorNotFoundInContext)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	svc, _, _ := newUserServiceFixture()

	ctx := ctxWithActor(1, constants.RoleAdmin, nil)
	payload := dto.CreateUserDTO{
		Name: "Администратор", Email: "admin@maintenance.local",
		Password: "secret123", Role: constants.RoleAdmin,
	}

	_, err := svc.CreateUser(ctx, payload)
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, payload)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation), "повторный email отклоняется")
}
