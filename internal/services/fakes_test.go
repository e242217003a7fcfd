package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/pkg/constants"
	"maintenance-system/pkg/contextkeys"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/service"
	"maintenance-system/pkg/types"
)

// ctxWithActor кладёт актора в контекст так же, как это делает auth middleware.
func ctxWithActor(id uint64, role string, teamID *uint64) context.Context {
	actor := &authz.Actor{ID: id, Role: role, TeamID: teamID}
	ctx := context.WithValue(context.Background(), contextkeys.ActorKey, actor)
	return context.WithValue(ctx, contextkeys.UserIDKey, id)
}

// ----- Фейковый репозиторий заявок -----

type fakeRequestRepo struct {
	mu       sync.Mutex
	requests map[uint64]*entities.MaintenanceRequest
	nextID   uint64
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[uint64]*entities.MaintenanceRequest), nextID: 1}
}

func (f *fakeRequestRepo) matchesScope(req *entities.MaintenanceRequest, scope authz.RequestScope) bool {
	switch {
	case scope.All:
		return true
	case scope.CreatedBy != nil:
		return req.CreatedBy == *scope.CreatedBy
	case scope.TechnicianID != nil:
		if req.TechnicianID != nil && *req.TechnicianID == *scope.TechnicianID {
			return true
		}
		return req.TechnicianID == nil &&
			scope.UnassignedTeamID != nil &&
			req.TeamID != nil && *req.TeamID == *scope.UnassignedTeamID
	default:
		return false
	}
}

func (f *fakeRequestRepo) GetRequests(ctx context.Context, scope authz.RequestScope, filter types.Filter) ([]entities.MaintenanceRequest, uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	list := make([]entities.MaintenanceRequest, 0)
	for _, req := range f.requests {
		if f.matchesScope(req, scope) {
			list = append(list, *req)
		}
	}
	return list, uint64(len(list)), nil
}

func (f *fakeRequestRepo) FindRequest(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	req, ok := f.requests[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("заявка с id=%d не найдена", id)
	}
	clone := *req
	return &clone, nil
}

func (f *fakeRequestRepo) CreateRequest(ctx context.Context, request *entities.MaintenanceRequest) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	clone := *request
	clone.ID = id
	f.requests[id] = &clone
	return id, nil
}

func (f *fakeRequestRepo) AcceptRequest(ctx context.Context, id uint64, technicianID uint64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	req, ok := f.requests[id]
	if !ok || req.Status != constants.RequestStatusNew {
		return false, nil
	}
	req.Status = constants.RequestStatusInProgress
	req.TechnicianID = &technicianID
	return true, nil
}

func (f *fakeRequestRepo) UpdateRequest(ctx context.Context, id uint64, request *entities.MaintenanceRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.requests[id]; !ok {
		return apperrors.NewNotFoundError("заявка с id=%d не найдена", id)
	}
	clone := *request
	clone.ID = id
	f.requests[id] = &clone
	return nil
}

func (f *fakeRequestRepo) UpdateRequestInTx(ctx context.Context, tx pgx.Tx, id uint64, request *entities.MaintenanceRequest) error {
	return f.UpdateRequest(ctx, id, request)
}

func (f *fakeRequestRepo) DeleteRequest(ctx context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.requests[id]; !ok {
		return apperrors.NewNotFoundError("заявка с id=%d не найдена", id)
	}
	delete(f.requests, id)
	return nil
}

func (f *fakeRequestRepo) CountOpenByEquipment(ctx context.Context, equipmentID uint64) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count uint64
	for _, req := range f.requests {
		if req.EquipmentID != equipmentID {
			continue
		}
		if req.Status == constants.RequestStatusNew || req.Status == constants.RequestStatusInProgress {
			count++
		}
	}
	return count, nil
}

// ----- Фейковый репозиторий оборудования -----

type fakeEquipmentRepo struct {
	mu            sync.Mutex
	equipments    map[uint64]*entities.Equipment
	nextID        uint64
	findCalls     int
	defaultsCalls int
}

func newFakeEquipmentRepo() *fakeEquipmentRepo {
	return &fakeEquipmentRepo{equipments: make(map[uint64]*entities.Equipment), nextID: 1}
}

func (f *fakeEquipmentRepo) GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	list := make([]entities.Equipment, 0)
	for _, eq := range f.equipments {
		list = append(list, *eq)
	}
	return list, uint64(len(list)), nil
}

func (f *fakeEquipmentRepo) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.findCalls++
	eq, ok := f.equipments[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("оборудование с id=%d не найдено", id)
	}
	clone := *eq
	return &clone, nil
}

func (f *fakeEquipmentRepo) CreateEquipment(ctx context.Context, equipment *entities.Equipment) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, eq := range f.equipments {
		if eq.SerialNumber == equipment.SerialNumber {
			return 0, apperrors.NewValidationError("оборудование с серийным номером %q уже существует", equipment.SerialNumber)
		}
	}
	id := f.nextID
	f.nextID++
	clone := *equipment
	clone.ID = id
	f.equipments[id] = &clone
	return id, nil
}

func (f *fakeEquipmentRepo) UpdateEquipment(ctx context.Context, id uint64, equipment *entities.Equipment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.equipments[id]; !ok {
		return apperrors.NewNotFoundError("оборудование с id=%d не найдено", id)
	}
	clone := *equipment
	clone.ID = id
	f.equipments[id] = &clone
	return nil
}

func (f *fakeEquipmentRepo) DeleteEquipment(ctx context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.equipments[id]; !ok {
		return apperrors.NewNotFoundError("оборудование с id=%d не найдено", id)
	}
	delete(f.equipments, id)
	return nil
}

func (f *fakeEquipmentRepo) GetDefaults(ctx context.Context, id uint64) (*entities.EquipmentDefaults, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.defaultsCalls++
	eq, ok := f.equipments[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("оборудование с id=%d не найдено", id)
	}
	return &entities.EquipmentDefaults{TeamID: eq.MaintenanceTeamID, TechnicianID: eq.TechnicianID}, nil
}

func (f *fakeEquipmentRepo) SetScrapInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	eq, ok := f.equipments[id]
	if !ok {
		return apperrors.NewNotFoundError("оборудование с id=%d не найдено", id)
	}
	eq.IsScrap = true
	eq.Status = constants.EquipmentStatusScrap
	return nil
}

// ----- Фейковый кэш -----

type fakeCacheRepo struct {
	mu     sync.Mutex
	values map[string]string
	sets   int
	hits   int
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{values: make(map[string]string)}
}

func (f *fakeCacheRepo) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	val, ok := f.values[key]
	if !ok {
		return "", fmt.Errorf("ключ %q не найден в кэше", key)
	}
	f.hits++
	return val, nil
}

func (f *fakeCacheRepo) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sets++
	f.values[key] = fmt.Sprintf("%v", value)
	return nil
}

func (f *fakeCacheRepo) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

// ----- Фейковый менеджер транзакций -----

type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	f.calls++
	return fn(nil)
}

// ----- Фейковые репозитории пользователей и бригад -----

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[uint64]*entities.User
	nextID uint64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint64]*entities.User), nextID: 1}
}

func (f *fakeUserRepo) GetUsers(ctx context.Context) ([]entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	list := make([]entities.User, 0)
	for _, u := range f.users {
		list = append(list, *u)
	}
	return list, nil
}

func (f *fakeUserRepo) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("пользователь с id=%d не найден", id)
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserRepo) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperrors.NewNotFoundError("пользователь с email=%s не найден", email)
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *entities.User) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == user.Email {
			return 0, apperrors.NewValidationError("пользователь с email %q уже существует", user.Email)
		}
	}
	id := f.nextID
	f.nextID++
	clone := *user
	clone.ID = id
	f.users[id] = &clone
	return id, nil
}

type fakeTeamRepo struct {
	mu     sync.Mutex
	teams  map[uint64]*entities.Team
	nextID uint64
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[uint64]*entities.Team), nextID: 1}
}

func (f *fakeTeamRepo) GetTeams(ctx context.Context) ([]entities.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	list := make([]entities.Team, 0)
	for _, tm := range f.teams {
		list = append(list, *tm)
	}
	return list, nil
}

func (f *fakeTeamRepo) FindTeam(ctx context.Context, id uint64) (*entities.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	tm, ok := f.teams[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("бригада с id=%d не найдена", id)
	}
	clone := *tm
	return &clone, nil
}

func (f *fakeTeamRepo) CreateTeam(ctx context.Context, payload dto.CreateTeamDTO) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	f.teams[id] = &entities.Team{ID: id, Name: payload.Name}
	return id, nil
}

// ----- Фейковый JWT-сервис -----

type fakeJWTService struct{}

func (f *fakeJWTService) GenerateTokens(userID uint64) (string, string, error) {
	return fmt.Sprintf("access-%d", userID), fmt.Sprintf("refresh-%d", userID), nil
}

func (f *fakeJWTService) ValidateToken(tokenString string) (*service.JwtCustomClaim, error) {
	return nil, apperrors.ErrInvalidToken
}

func (f *fakeJWTService) GetAccessTokenTTL() time.Duration  { return time.Hour }
func (f *fakeJWTService) GetRefreshTokenTTL() time.Duration { return time.Hour * 24 }
