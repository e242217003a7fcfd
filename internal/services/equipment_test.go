package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
)

type equipmentServiceFixture struct {
	svc           EquipmentServiceInterface
	equipmentRepo *fakeEquipmentRepo
	requestRepo   *fakeRequestRepo
	cacheRepo     *fakeCacheRepo
}

func newEquipmentServiceFixture() *equipmentServiceFixture {
	equipmentRepo := newFakeEquipmentRepo()
	requestRepo := newFakeRequestRepo()
	cacheRepo := newFakeCacheRepo()

	return &equipmentServiceFixture{
		svc:           NewEquipmentService(equipmentRepo, requestRepo, cacheRepo, 10*time.Minute, zap.NewNop()),
		equipmentRepo: equipmentRepo,
		requestRepo:   requestRepo,
		cacheRepo:     cacheRepo,
	}
}

func TestCreateEquipment_WorkerGoesToPending(t *testing.T) {
	f := newEquipmentServiceFixture()
	teamID := uint64(3)

	ctx := ctxWithActor(7, constants.RoleWorker, &teamID)
	created, err := f.svc.CreateEquipment(ctx, dto.CreateEquipmentDTO{
		Name:         "Сверлильный станок",
		SerialNumber: "SN-12-007",
		// Работник пытается задать статус — он игнорируется.
		Status: null.StringFrom(constants.EquipmentStatusActive),
	})

	require.NoError(t, err)
	assert.Equal(t, constants.EquipmentStatusPending, created.Status, "оборудование работника уходит на одобрение")
	assert.False(t, created.IsScrap)
}

func TestCreateEquipment_ManagerDefaultsToActive(t *testing.T) {
	f := newEquipmentServiceFixture()

	ctx := ctxWithActor(2, constants.RoleManager, nil)
	created, err := f.svc.CreateEquipment(ctx, dto.CreateEquipmentDTO{
		Name:         "Компрессор",
		SerialNumber: "KS-7-014",
	})

	require.NoError(t, err)
	assert.Equal(t, constants.EquipmentStatusActive, created.Status)
}

func TestCreateEquipment_AdminSetsExplicitStatus(t *testing.T) {
	f := newEquipmentServiceFixture()

	ctx := ctxWithActor(1, constants.RoleAdmin, nil)
	created, err := f.svc.CreateEquipment(ctx, dto.CreateEquipmentDTO{
		Name:         "Старый пресс",
		SerialNumber: "PR-1-001",
		Status:       null.StringFrom(constants.EquipmentStatusScrap),
	})

	require.NoError(t, err)
	assert.Equal(t, constants.EquipmentStatusScrap, created.Status)
	assert.True(t, created.IsScrap, "статус Scrap синхронизирует флаг списания")
}

func TestCreateEquipment_TechnicianForbidden(t *testing.T) {
	f := newEquipmentServiceFixture()

	ctx := ctxWithActor(9, constants.RoleTechnician, nil)
	_, err := f.svc.CreateEquipment(ctx, dto.CreateEquipmentDTO{
		Name:         "Компрессор",
		SerialNumber: "KS-7-015",
	})

	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthorization))
}

func TestUpdateEquipment_StatusSilentlyDroppedForWorker(t *testing.T) {
	f := newEquipmentServiceFixture()
	id, err := f.equipmentRepo.CreateEquipment(context.Background(), &entities.Equipment{
		Name: "Токарный станок", SerialNumber: "TV-320-001",
		Status: constants.EquipmentStatusActive,
	})
	require.NoError(t, err)

	teamID := uint64(3)
	ctx := ctxWithActor(7, constants.RoleWorker, &teamID)
	updated, err := f.svc.UpdateEquipment(ctx, id, dto.UpdateEquipmentDTO{
		Location: null.StringFrom("Цех 2"),
		Status:   null.StringFrom(constants.EquipmentStatusScrap),
	})

	require.NoError(t, err)
	assert.Equal(t, "Цех 2", updated.Location.String, "остальной патч применяется")
	assert.Equal(t, constants.EquipmentStatusActive, updated.Status, "статус из патча работника выброшен")
	assert.False(t, updated.IsScrap)
}

func TestUpdateEquipment_ManagerChangesStatus(t *testing.T) {
	f := newEquipmentServiceFixture()
	id, err := f.equipmentRepo.CreateEquipment(context.Background(), &entities.Equipment{
		Name: "Токарный станок", SerialNumber: "TV-320-001",
		Status: constants.EquipmentStatusPending,
	})
	require.NoError(t, err)

	ctx := ctxWithActor(2, constants.RoleManager, nil)
	updated, err := f.svc.UpdateEquipment(ctx, id, dto.UpdateEquipmentDTO{
		Status: null.StringFrom(constants.EquipmentStatusActive),
	})

	require.NoError(t, err)
	assert.Equal(t, constants.EquipmentStatusActive, updated.Status)
}

func TestDeleteEquipment_BlockedByOpenRequests(t *testing.T) {
	f := newEquipmentServiceFixture()
	id, err := f.equipmentRepo.CreateEquipment(context.Background(), &entities.Equipment{
		Name: "Токарный станок", SerialNumber: "TV-320-001",
		Status: constants.EquipmentStatusActive,
	})
	require.NoError(t, err)

	_, err = f.requestRepo.CreateRequest(context.Background(), &entities.MaintenanceRequest{
		Subject: "Вибрация", Status: constants.RequestStatusNew,
		EquipmentID: id, CreatedBy: 7,
	})
	require.NoError(t, err)

	ctx := ctxWithActor(1, constants.RoleAdmin, nil)
	err = f.svc.DeleteEquipment(ctx, id)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict), "открытая заявка блокирует удаление")

	// Закрытая заявка удалению не мешает.
	f2 := newEquipmentServiceFixture()
	id2, err := f2.equipmentRepo.CreateEquipment(context.Background(), &entities.Equipment{
		Name: "Компрессор", SerialNumber: "KS-7-014",
		Status: constants.EquipmentStatusActive,
	})
	require.NoError(t, err)
	_, err = f2.requestRepo.CreateRequest(context.Background(), &entities.MaintenanceRequest{
		Subject: "Починено", Status: constants.RequestStatusRepaired,
		EquipmentID: id2, CreatedBy: 7,
	})
	require.NoError(t, err)

	err = f2.svc.DeleteEquipment(ctx, id2)
	require.NoError(t, err)
	_, err = f2.equipmentRepo.FindEquipment(context.Background(), id2)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestDeleteEquipment_ManagerForbidden(t *testing.T) {
	f := newEquipmentServiceFixture()
	id, err := f.equipmentRepo.CreateEquipment(context.Background(), &entities.Equipment{
		Name: "Токарный станок", SerialNumber: "TV-320-001",
		Status: constants.EquipmentStatusActive,
	})
	require.NoError(t, err)

	err = f.svc.DeleteEquipment(ctxWithActor(2, constants.RoleManager, nil), id)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthorization), "удаление — только администратору")
}

func TestGetDefaults_CachesAndInvalidates(t *testing.T) {
	f := newEquipmentServiceFixture()
	teamID, technicianID := uint64(3), uint64(9)
	id, err := f.equipmentRepo.CreateEquipment(context.Background(), &entities.Equipment{
		Name: "Токарный станок", SerialNumber: "TV-320-001",
		Status:            constants.EquipmentStatusActive,
		MaintenanceTeamID: &teamID, TechnicianID: &technicianID,
	})
	require.NoError(t, err)

	ctx := ctxWithActor(7, constants.RoleWorker, &teamID)

	defaults, err := f.svc.GetDefaults(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, defaults.TeamID)
	assert.Equal(t, teamID, *defaults.TeamID)
	assert.Equal(t, 1, f.cacheRepo.sets, "первый запрос пишет кэш")
	assert.Equal(t, 1, f.equipmentRepo.defaultsCalls)

	defaults, err = f.svc.GetDefaults(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, defaults.TechnicianID)
	assert.Equal(t, technicianID, *defaults.TechnicianID)
	assert.Equal(t, 1, f.cacheRepo.hits, "повторный запрос отвечает из кэша")
	assert.Equal(t, 1, f.equipmentRepo.defaultsCalls, "повторный запрос в БД не ходит")

	// Изменение маршрутизации сбрасывает кэш.
	newTechnician := uint64(12)
	_, err = f.svc.UpdateEquipment(ctxWithActor(2, constants.RoleManager, nil), id, dto.UpdateEquipmentDTO{
		TechnicianID: &newTechnician,
	})
	require.NoError(t, err)

	cacheKey := fmt.Sprintf(constants.CacheKeyEquipmentDefaults, id)
	_, err = f.cacheRepo.Get(context.Background(), cacheKey)
	assert.Error(t, err, "после изменения оборудования кэш пуст")

	defaults, err = f.svc.GetDefaults(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, defaults.TechnicianID)
	assert.Equal(t, newTechnician, *defaults.TechnicianID, "после сброса читается свежая маршрутизация")
}

func TestGetDefaults_UnknownEquipment(t *testing.T) {
	f := newEquipmentServiceFixture()

	_, err := f.svc.GetDefaults(ctxWithActor(7, constants.RoleWorker, nil), 999)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestCountOpenRequests(t *testing.T) {
	f := newEquipmentServiceFixture()
	id, err := f.equipmentRepo.CreateEquipment(context.Background(), &entities.Equipment{
		Name: "Токарный станок", SerialNumber: "TV-320-001",
		Status: constants.EquipmentStatusActive,
	})
	require.NoError(t, err)

	for _, status := range []string{
		constants.RequestStatusNew,
		constants.RequestStatusInProgress,
		constants.RequestStatusRepaired,
	} {
		_, err = f.requestRepo.CreateRequest(context.Background(), &entities.MaintenanceRequest{
			Subject: "Заявка " + status, Status: status,
			EquipmentID: id, CreatedBy: 7,
		})
		require.NoError(t, err)
	}

	count, err := f.svc.CountOpenRequests(ctxWithActor(2, constants.RoleManager, nil), id)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count, "считаются только New и In Progress")

	_, err = f.svc.CountOpenRequests(ctxWithActor(2, constants.RoleManager, nil), 999)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
