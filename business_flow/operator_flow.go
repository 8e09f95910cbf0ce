package businessflow

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"

	"github.com/valvedesk/quoting-backoffice/app/dto"
	"github.com/valvedesk/quoting-backoffice/models"
	"github.com/valvedesk/quoting-backoffice/repository"
	"github.com/valvedesk/quoting-backoffice/utils"
)

// OperatorFlow manages back-office accounts
type OperatorFlow interface {
	CreateOperator(ctx context.Context, req *dto.CreateOperatorRequest) (*dto.OperatorDTO, error)
	ListOperators(ctx context.Context, page, pageSize int) (*dto.ListOperatorsResponse, error)
	GetOperator(ctx context.Context, id uint) (*dto.OperatorDTO, error)
}

type OperatorFlowImpl struct {
	operatorRepo repository.OperatorRepository
	roleRepo     repository.RoleRepository
	bcryptCost   int
}

func NewOperatorFlow(operatorRepo repository.OperatorRepository, roleRepo repository.RoleRepository, bcryptCost int) OperatorFlow {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &OperatorFlowImpl{
		operatorRepo: operatorRepo,
		roleRepo:     roleRepo,
		bcryptCost:   bcryptCost,
	}
}

func (f *OperatorFlowImpl) CreateOperator(ctx context.Context, req *dto.CreateOperatorRequest) (*dto.OperatorDTO, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}
	username := strings.TrimSpace(req.Username)
	existing, err := f.operatorRepo.ByUsername(ctx, username)
	if err != nil {
		return nil, NewBusinessError("OPERATOR_LOOKUP_FAILED", "Failed to lookup operator", err)
	}
	if existing != nil {
		return nil, NewBusinessError("OPERATOR_USERNAME_EXISTS", "Username already exists", ErrOperatorUsernameExists)
	}

	role, err := f.roleRepo.ByID(ctx, req.RoleID)
	if err != nil {
		return nil, NewBusinessError("GET_ROLE_FAILED", "Failed to get role", err)
	}
	if role == nil {
		return nil, NewBusinessError("ROLE_NOT_FOUND", "Role not found", ErrRoleNotFound)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), f.bcryptCost)
	if err != nil {
		return nil, NewBusinessError("PASSWORD_HASH_FAILED", "Failed to hash password", err)
	}

	operator := &models.Operator{
		UUID:         uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(req.DisplayName),
		RoleID:       role.ID,
		IsActive:     utils.ToPtr(true),
	}
	if err := f.operatorRepo.Save(ctx, operator); err != nil {
		return nil, NewBusinessError("CREATE_OPERATOR_FAILED", "Failed to create operator", err)
	}
	operator.Role = role
	out := ToOperatorDTO(*operator)
	return &out, nil
}

func (f *OperatorFlowImpl) ListOperators(ctx context.Context, page, pageSize int) (*dto.ListOperatorsResponse, error) {
	limit, offset, err := pageWindow(page, pageSize)
	if err != nil {
		return nil, err
	}
	total, err := f.operatorRepo.Count(ctx, models.OperatorFilter{})
	if err != nil {
		return nil, NewBusinessError("COUNT_OPERATORS_FAILED", "Failed to count operators", err)
	}
	rows, err := f.operatorRepo.ByFilter(ctx, models.OperatorFilter{}, "id ASC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("LIST_OPERATORS_FAILED", "Failed to list operators", err)
	}
	return &dto.ListOperatorsResponse{
		Items:      lo.Map(rows, func(op *models.Operator, _ int) dto.OperatorDTO { return ToOperatorDTO(*op) }),
		Pagination: newPagination(total, page, pageSize),
	}, nil
}

func (f *OperatorFlowImpl) GetOperator(ctx context.Context, id uint) (*dto.OperatorDTO, error) {
	operator, err := f.operatorRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("OPERATOR_LOOKUP_FAILED", "Failed to lookup operator", err)
	}
	if operator == nil {
		return nil, NewBusinessError("OPERATOR_NOT_FOUND", "Operator not found", ErrOperatorNotFound)
	}
	out := ToOperatorDTO(*operator)
	return &out, nil
}
