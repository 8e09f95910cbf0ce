package businessflow

import (
	"context"
	"sort"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/valvedesk/quoting-backoffice/app/dto"
	"github.com/valvedesk/quoting-backoffice/app/services"
	"github.com/valvedesk/quoting-backoffice/models"
	"github.com/valvedesk/quoting-backoffice/repository"
	"github.com/valvedesk/quoting-backoffice/utils"
)

// Permission codes guarding the API. Each one is also the code of the menu that grants it.
const (
	PermissionMenu      = "system:menu"
	PermissionRole      = "system:role"
	PermissionOperator  = "system:operator"
	PermissionSetting   = "system:setting"
	PermissionSupplier  = "base:supplier"
	PermissionReference = "base:reference"
	PermissionBill      = "quote:bill"
	PermissionPrice     = "quote:price"
)

// MenuFlow administers menus, roles and the grants between them
type MenuFlow interface {
	MenuTree(ctx context.Context) ([]*dto.MenuNode, error)
	MenuTreeForRole(ctx context.Context, roleID uint) ([]*dto.MenuNode, error)
	CreateMenu(ctx context.Context, req *dto.CreateMenuRequest) (*dto.MenuDTO, error)
	UpdateMenu(ctx context.Context, id uint, req *dto.UpdateMenuRequest) (*dto.MenuDTO, error)
	DeleteMenu(ctx context.Context, id uint) error

	ListRoles(ctx context.Context) ([]dto.RoleDTO, error)
	CreateRole(ctx context.Context, req *dto.CreateRoleRequest) (*dto.RoleDTO, error)
	ReplaceRoleMenus(ctx context.Context, roleID uint, req *dto.UpdateRoleMenusRequest, operatorID uint, metadata *ClientMetadata) (*dto.RoleDTO, error)

	// HasPermission reports whether the role was granted the menu with code.
	// The admin role holds every permission.
	HasPermission(ctx context.Context, roleID uint, code string) (bool, error)
}

type MenuFlowImpl struct {
	menuRepo  repository.MenuRepository
	roleRepo  repository.RoleRepository
	auditRepo repository.AuditLogRepository
	txManager repository.TxManager
	cache     services.MenuCache
	logger    *zap.Logger
}

func NewMenuFlow(
	menuRepo repository.MenuRepository,
	roleRepo repository.RoleRepository,
	auditRepo repository.AuditLogRepository,
	txManager repository.TxManager,
	cache services.MenuCache,
	logger *zap.Logger,
) MenuFlow {
	if cache == nil {
		cache = services.NewMenuCache(nil, "", 0, nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MenuFlowImpl{
		menuRepo:  menuRepo,
		roleRepo:  roleRepo,
		auditRepo: auditRepo,
		txManager: txManager,
		cache:     cache,
		logger:    logger,
	}
}

// BuildMenuTree nests menus under their parents. Siblings are ordered by sort then
// id, and a menu whose parent is not in the input becomes a root.
func BuildMenuTree(menus []models.Menu) []*dto.MenuNode {
	sorted := append([]models.Menu(nil), menus...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Sort != sorted[j].Sort {
			return sorted[i].Sort < sorted[j].Sort
		}
		return sorted[i].ID < sorted[j].ID
	})

	nodes := make(map[uint]*dto.MenuNode, len(sorted))
	for _, m := range sorted {
		nodes[m.ID] = &dto.MenuNode{MenuDTO: ToMenuDTO(m)}
	}

	roots := make([]*dto.MenuNode, 0)
	for _, m := range sorted {
		node := nodes[m.ID]
		if m.ParentID != nil && *m.ParentID != m.ID {
			if parent, ok := nodes[*m.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}

func (f *MenuFlowImpl) allMenus(ctx context.Context) ([]models.Menu, error) {
	rows, err := f.menuRepo.ByFilter(ctx, models.MenuFilter{}, "", 0, 0)
	if err != nil {
		return nil, NewBusinessError("LIST_MENUS_FAILED", "Failed to list menus", err)
	}
	return lo.Map(rows, func(m *models.Menu, _ int) models.Menu { return *m }), nil
}

func (f *MenuFlowImpl) MenuTree(ctx context.Context) ([]*dto.MenuNode, error) {
	menus, err := f.allMenus(ctx)
	if err != nil {
		return nil, err
	}
	return BuildMenuTree(menus), nil
}

// roleMenus returns the menus granted to a role, through the cache
func (f *MenuFlowImpl) roleMenus(ctx context.Context, role *models.Role) ([]models.Menu, error) {
	if menus, ok := f.cache.Get(ctx, role.ID); ok {
		return menus, nil
	}

	var menus []models.Menu
	if role.IsAdmin() {
		all, err := f.allMenus(ctx)
		if err != nil {
			return nil, err
		}
		menus = all
	} else {
		ids, err := f.roleRepo.MenuIDs(ctx, role.ID)
		if err != nil {
			return nil, NewBusinessError("LIST_ROLE_MENUS_FAILED", "Failed to list role menus", err)
		}
		if len(ids) > 0 {
			rows, err := f.menuRepo.ByFilter(ctx, models.MenuFilter{IDs: ids}, "", 0, 0)
			if err != nil {
				return nil, NewBusinessError("LIST_MENUS_FAILED", "Failed to list menus", err)
			}
			menus = lo.Map(rows, func(m *models.Menu, _ int) models.Menu { return *m })
		}
	}
	f.cache.Set(ctx, role.ID, menus)
	return menus, nil
}

func (f *MenuFlowImpl) loadRole(ctx context.Context, roleID uint) (*models.Role, error) {
	role, err := f.roleRepo.ByID(ctx, roleID)
	if err != nil {
		return nil, NewBusinessError("GET_ROLE_FAILED", "Failed to get role", err)
	}
	if role == nil {
		return nil, NewBusinessError("ROLE_NOT_FOUND", "Role not found", ErrRoleNotFound)
	}
	return role, nil
}

func (f *MenuFlowImpl) MenuTreeForRole(ctx context.Context, roleID uint) ([]*dto.MenuNode, error) {
	role, err := f.loadRole(ctx, roleID)
	if err != nil {
		return nil, err
	}
	menus, err := f.roleMenus(ctx, role)
	if err != nil {
		return nil, err
	}
	visible := lo.Filter(menus, func(m models.Menu, _ int) bool { return utils.IsTrue(m.IsVisible) })
	return BuildMenuTree(visible), nil
}

func (f *MenuFlowImpl) HasPermission(ctx context.Context, roleID uint, code string) (bool, error) {
	role, err := f.loadRole(ctx, roleID)
	if err != nil {
		return false, err
	}
	if role.IsAdmin() {
		return true, nil
	}
	menus, err := f.roleMenus(ctx, role)
	if err != nil {
		return false, err
	}
	return lo.ContainsBy(menus, func(m models.Menu) bool { return m.Code == code }), nil
}

func (f *MenuFlowImpl) checkParent(ctx context.Context, id uint, parentID *uint) error {
	if parentID == nil {
		return nil
	}
	if id != 0 && *parentID == id {
		return NewBusinessError("MENU_PARENT_INVALID", "A menu cannot be its own parent", ErrMenuParentInvalid)
	}
	parent, err := f.menuRepo.ByID(ctx, *parentID)
	if err != nil {
		return NewBusinessError("GET_MENU_FAILED", "Failed to get parent menu", err)
	}
	if parent == nil {
		return NewBusinessError("MENU_PARENT_INVALID", "Parent menu not found", ErrMenuParentInvalid)
	}
	if id == 0 {
		return nil
	}

	// walk up from the new parent; reaching id would close a cycle
	menus, err := f.allMenus(ctx)
	if err != nil {
		return err
	}
	byID := lo.KeyBy(menus, func(m models.Menu) uint { return m.ID })
	seen := map[uint]bool{}
	for cur := parent; cur != nil && cur.ParentID != nil && !seen[cur.ID]; {
		seen[cur.ID] = true
		if *cur.ParentID == id {
			return NewBusinessError("MENU_PARENT_INVALID", "A menu cannot move under its own descendant", ErrMenuParentInvalid)
		}
		next, ok := byID[*cur.ParentID]
		if !ok {
			break
		}
		cur = &next
	}
	return nil
}

func (f *MenuFlowImpl) CreateMenu(ctx context.Context, req *dto.CreateMenuRequest) (*dto.MenuDTO, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}
	code := strings.TrimSpace(req.Code)
	existing, err := f.menuRepo.ByCode(ctx, code)
	if err != nil {
		return nil, NewBusinessError("GET_MENU_FAILED", "Failed to check menu code", err)
	}
	if existing != nil {
		return nil, NewBusinessError("MENU_CODE_EXISTS", "Menu code already exists", ErrMenuCodeExists)
	}
	if err := f.checkParent(ctx, 0, req.ParentID); err != nil {
		return nil, err
	}

	visible := true
	if req.IsVisible != nil {
		visible = *req.IsVisible
	}
	menu := &models.Menu{
		ParentID:  req.ParentID,
		Code:      code,
		Title:     strings.TrimSpace(req.Title),
		Path:      req.Path,
		Icon:      req.Icon,
		Sort:      req.Sort,
		IsVisible: &visible,
	}
	if err := f.menuRepo.Save(ctx, menu); err != nil {
		return nil, NewBusinessError("CREATE_MENU_FAILED", "Failed to create menu", err)
	}
	f.invalidateAll(ctx)
	out := ToMenuDTO(*menu)
	return &out, nil
}

func (f *MenuFlowImpl) UpdateMenu(ctx context.Context, id uint, req *dto.UpdateMenuRequest) (*dto.MenuDTO, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}
	menu, err := f.menuRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("GET_MENU_FAILED", "Failed to get menu", err)
	}
	if menu == nil {
		return nil, NewBusinessError("MENU_NOT_FOUND", "Menu not found", ErrMenuNotFound)
	}
	if err := f.checkParent(ctx, id, req.ParentID); err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		menu.ParentID = req.ParentID
	}
	if req.Title != nil {
		menu.Title = strings.TrimSpace(*req.Title)
	}
	if req.Path != nil {
		menu.Path = req.Path
	}
	if req.Icon != nil {
		menu.Icon = req.Icon
	}
	if req.Sort != nil {
		menu.Sort = *req.Sort
	}
	if req.IsVisible != nil {
		menu.IsVisible = utils.ToPtr(*req.IsVisible)
	}
	menu.UpdatedAt = utils.UTCNow()

	if err := f.menuRepo.Update(ctx, menu); err != nil {
		return nil, NewBusinessError("UPDATE_MENU_FAILED", "Failed to update menu", err)
	}
	f.invalidateAll(ctx)
	out := ToMenuDTO(*menu)
	return &out, nil
}

// DeleteMenu removes a menu and its grants; children are lifted to the root level
// by the tree builder.
func (f *MenuFlowImpl) DeleteMenu(ctx context.Context, id uint) error {
	menu, err := f.menuRepo.ByID(ctx, id)
	if err != nil {
		return NewBusinessError("GET_MENU_FAILED", "Failed to get menu", err)
	}
	if menu == nil {
		return NewBusinessError("MENU_NOT_FOUND", "Menu not found", ErrMenuNotFound)
	}
	if err := f.menuRepo.Delete(ctx, id); err != nil {
		return NewBusinessError("DELETE_MENU_FAILED", "Failed to delete menu", err)
	}
	f.invalidateAll(ctx)
	return nil
}

func (f *MenuFlowImpl) invalidateAll(ctx context.Context) {
	roles, err := f.roleRepo.List(ctx)
	if err != nil {
		f.logger.Warn("menu cache invalidation skipped", zap.Error(err))
		return
	}
	f.cache.Invalidate(ctx, lo.Map(roles, func(r *models.Role, _ int) uint { return r.ID })...)
}

func (f *MenuFlowImpl) toRoleDTO(ctx context.Context, role *models.Role) (dto.RoleDTO, error) {
	ids, err := f.roleRepo.MenuIDs(ctx, role.ID)
	if err != nil {
		return dto.RoleDTO{}, NewBusinessError("LIST_ROLE_MENUS_FAILED", "Failed to list role menus", err)
	}
	if ids == nil {
		ids = []uint{}
	}
	return dto.RoleDTO{ID: role.ID, Code: role.Code, Name: role.Name, MenuIDs: ids}, nil
}

func (f *MenuFlowImpl) ListRoles(ctx context.Context) ([]dto.RoleDTO, error) {
	roles, err := f.roleRepo.List(ctx)
	if err != nil {
		return nil, NewBusinessError("LIST_ROLES_FAILED", "Failed to list roles", err)
	}
	out := make([]dto.RoleDTO, 0, len(roles))
	for _, role := range roles {
		item, err := f.toRoleDTO(ctx, role)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *MenuFlowImpl) CreateRole(ctx context.Context, req *dto.CreateRoleRequest) (*dto.RoleDTO, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}
	code := strings.TrimSpace(req.Code)
	existing, err := f.roleRepo.ByCode(ctx, code)
	if err != nil {
		return nil, NewBusinessError("GET_ROLE_FAILED", "Failed to check role code", err)
	}
	if existing != nil {
		return nil, NewBusinessError("ROLE_CODE_EXISTS", "Role code already exists", ErrRoleCodeExists)
	}
	role := &models.Role{Code: code, Name: strings.TrimSpace(req.Name)}
	if err := f.roleRepo.Save(ctx, role); err != nil {
		return nil, NewBusinessError("CREATE_ROLE_FAILED", "Failed to create role", err)
	}
	return &dto.RoleDTO{ID: role.ID, Code: role.Code, Name: role.Name, MenuIDs: []uint{}}, nil
}

func (f *MenuFlowImpl) ReplaceRoleMenus(ctx context.Context, roleID uint, req *dto.UpdateRoleMenusRequest, operatorID uint, metadata *ClientMetadata) (*dto.RoleDTO, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}
	role, err := f.loadRole(ctx, roleID)
	if err != nil {
		return nil, err
	}

	menuIDs := lo.Uniq(req.MenuIDs)
	if len(menuIDs) > 0 {
		found, err := f.menuRepo.Count(ctx, models.MenuFilter{IDs: menuIDs})
		if err != nil {
			return nil, NewBusinessError("LIST_MENUS_FAILED", "Failed to list menus", err)
		}
		if found != int64(len(menuIDs)) {
			return nil, NewBusinessError("MENU_NOT_FOUND", "One or more menus do not exist", ErrMenuNotFound)
		}
	}

	err = f.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := f.roleRepo.ReplaceMenus(txCtx, role.ID, menuIDs); err != nil {
			return err
		}
		audit := newAuditLog(&operatorID, models.AuditActionRoleMenusUpdated, "role", &role.ID,
			"role menus replaced", metadata, map[string]any{"menu_ids": menuIDs})
		return f.auditRepo.Save(txCtx, audit)
	})
	if err != nil {
		return nil, NewBusinessError("UPDATE_ROLE_MENUS_FAILED", "Failed to update role menus", err)
	}
	f.cache.Invalidate(ctx, role.ID)

	out, err := f.toRoleDTO(ctx, role)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
