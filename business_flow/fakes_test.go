package businessflow

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/valvedesk/quoting-backoffice/models"
	"github.com/valvedesk/quoting-backoffice/repository"
)

var errStorage = errors.New("storage unavailable")

// memPriceRepo keeps both sets of one category in memory. Ids are shared across
// the two sets the way a fresh insert always gets a new id.
type memPriceRepo struct {
	mu       sync.Mutex
	category models.PartCategory
	sets     map[models.PriceSet]map[uint]models.PricedPart
	nextID   uint

	failSave   error
	failDelete error
	failUpdate error
}

func newMemPriceRepo(category models.PartCategory) *memPriceRepo {
	return &memPriceRepo{
		category: category,
		sets: map[models.PriceSet]map[uint]models.PricedPart{
			models.PriceSetActive:  {},
			models.PriceSetExpired: {},
		},
	}
}

// seed stores p in the set its timeout implies and returns the assigned id
func (r *memPriceRepo) seed(p models.PricedPart) uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	p.Category = r.category
	r.sets[p.Set()][p.ID] = p
	return p.ID
}

func (r *memPriceRepo) get(set models.PriceSet, id uint) (models.PricedPart, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.sets[set][id]
	return p, ok
}

func (r *memPriceRepo) all(set models.PriceSet) []models.PricedPart {
	r.mu.Lock()
	defer r.mu.Unlock()
	return sortedParts(r.sets[set])
}

func (r *memPriceRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make(map[models.PriceSet]map[uint]models.PricedPart, len(r.sets))
	for set, rows := range r.sets {
		cp := make(map[uint]models.PricedPart, len(rows))
		for id, p := range rows {
			cp[id] = p
		}
		saved[set] = cp
	}
	nextID := r.nextID
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.sets = saved
		r.nextID = nextID
	}
}

func sortedParts(rows map[uint]models.PricedPart) []models.PricedPart {
	out := make([]models.PricedPart, 0, len(rows))
	for _, p := range rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memPriceRepo) Category() models.PartCategory { return r.category }

func (r *memPriceRepo) ByIDs(_ context.Context, set models.PriceSet, ids []uint, _ bool) ([]models.PricedPart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.PricedPart, 0, len(ids))
	seen := map[uint]bool{}
	for _, id := range ids {
		if p, ok := r.sets[set][id]; ok && !seen[id] {
			out = append(out, p)
			seen[id] = true
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memPriceRepo) ByID(_ context.Context, set models.PriceSet, id uint) (*models.PricedPart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.sets[set][id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memPriceRepo) SaveBatch(_ context.Context, set models.PriceSet, parts []*models.PricedPart) error {
	if r.failSave != nil {
		return r.failSave
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range parts {
		r.nextID++
		p.ID = r.nextID
		p.Category = r.category
		if p.CreatedAt.IsZero() {
			p.CreatedAt = time.Now().UTC()
		}
		r.sets[set][p.ID] = *p
	}
	return nil
}

func (r *memPriceRepo) DeleteByIDs(_ context.Context, set models.PriceSet, ids []uint) (int64, error) {
	if r.failDelete != nil {
		return 0, r.failDelete
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := r.sets[set][id]; ok {
			delete(r.sets[set], id)
			n++
		}
	}
	return n, nil
}

func (r *memPriceRepo) UpdateValidity(_ context.Context, ids []uint, timeout, isPreProBind int, doUser *string, doDate time.Time) (int64, error) {
	if r.failUpdate != nil {
		return 0, r.failUpdate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		p, ok := r.sets[models.PriceSetActive][id]
		if !ok {
			continue
		}
		p.Timeout = timeout
		p.IsPreProBind = isPreProBind
		p.DoUser = doUser
		at := doDate
		p.DoDate = &at
		r.sets[models.PriceSetActive][id] = p
		n++
	}
	return n, nil
}

func (r *memPriceRepo) UpdateRemark(_ context.Context, id uint, remark *string) error {
	if r.failUpdate != nil {
		return r.failUpdate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.sets[models.PriceSetActive][id]
	if !ok {
		return errors.New("record not found")
	}
	p.Remark = remark
	r.sets[models.PriceSetActive][id] = p
	return nil
}

func (r *memPriceRepo) matches(p models.PricedPart, f models.PricedPartFilter) bool {
	if f.SupplierID != nil && (p.SupplierID == nil || *p.SupplierID != *f.SupplierID) {
		return false
	}
	if f.BillDetailID != nil && (p.BillDetailID == nil || *p.BillDetailID != *f.BillDetailID) {
		return false
	}
	if f.IsPreProBind != nil && p.IsPreProBind != *f.IsPreProBind {
		return false
	}
	if f.Keyword != nil && *f.Keyword != "" {
		kw := strings.ToLower(*f.Keyword)
		var text string
		if p.ValveBody != nil {
			text = strings.Join([]string{p.ValveBody.ValveType, p.ValveBody.DN, p.ValveBody.PN, p.ValveBody.BodyMaterial}, " ")
		}
		if p.Attachment != nil {
			text = strings.Join([]string{p.Attachment.AttachmentType, p.Attachment.Model, p.Attachment.Brand}, " ")
		}
		if !strings.Contains(strings.ToLower(text), kw) {
			return false
		}
	}
	return true
}

func (r *memPriceRepo) ByFilter(_ context.Context, set models.PriceSet, filter models.PricedPartFilter, _ string, limit, offset int) ([]models.PricedPart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := sortedParts(r.sets[set])
	// newest first, as the storage default
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID > rows[j].ID })
	var out []models.PricedPart
	for _, p := range rows {
		if r.matches(p, filter) {
			out = append(out, p)
		}
	}
	if offset >= len(out) {
		return []models.PricedPart{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memPriceRepo) Count(ctx context.Context, set models.PriceSet, filter models.PricedPartFilter) (int64, error) {
	rows, err := r.ByFilter(ctx, set, filter, "", 0, 0)
	return int64(len(rows)), err
}

// memTxManager restores every registered store when the unit of work fails
type memTxManager struct {
	stores []interface{ snapshot() func() }
}

func (m *memTxManager) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	restores := make([]func(), 0, len(m.stores))
	for _, s := range m.stores {
		restores = append(restores, s.snapshot())
	}
	if err := fn(ctx); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

type priceFixture struct {
	valve      *memPriceRepo
	attachment *memPriceRepo
	repos      repository.PriceRepositories
	tx         *memTxManager
}

func newPriceFixture() *priceFixture {
	valve := newMemPriceRepo(models.PartCategoryValveBody)
	attachment := newMemPriceRepo(models.PartCategoryAttachment)
	return &priceFixture{
		valve:      valve,
		attachment: attachment,
		repos:      repository.NewPriceRepositoriesFrom(valve, attachment),
		tx:         &memTxManager{stores: []interface{ snapshot() func() }{valve, attachment}},
	}
}

func valvePart(timeout, bind int) models.PricedPart {
	price := 100.0
	supplier := uint(3)
	return models.PricedPart{
		SupplierID:   &supplier,
		Price:        &price,
		Timeout:      timeout,
		IsPreProBind: bind,
		ValveBody:    &models.ValveBodySpec{ValveType: "Gate", DN: "DN50", PN: "PN16", BodyMaterial: "WCB", Quantity: 2},
	}
}

// memAuditRepo records audit entries
type memAuditRepo struct {
	mu      sync.Mutex
	entries []*models.AuditLog
	fail    error
}

func (r *memAuditRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := append([]*models.AuditLog(nil), r.entries...)
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.entries = saved
	}
}

func (r *memAuditRepo) ByID(_ context.Context, id uint) (*models.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (r *memAuditRepo) ByFilter(_ context.Context, filter models.AuditLogFilter, _ string, _, _ int) ([]*models.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.AuditLog
	for _, e := range r.entries {
		if filter.Action != nil && e.Action != *filter.Action {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *memAuditRepo) Save(_ context.Context, entry *models.AuditLog) error {
	if r.fail != nil {
		return r.fail
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = uint(len(r.entries) + 1)
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memAuditRepo) SaveBatch(ctx context.Context, entries []*models.AuditLog) error {
	for _, e := range entries {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *memAuditRepo) Count(ctx context.Context, filter models.AuditLogFilter) (int64, error) {
	rows, _ := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), nil
}

func (r *memAuditRepo) Exists(ctx context.Context, filter models.AuditLogFilter) (bool, error) {
	n, err := r.Count(ctx, filter)
	return n > 0, err
}

func (r *memAuditRepo) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

type memSupplierRepo struct {
	mu   sync.Mutex
	rows map[uint]models.Supplier
	next uint
}

func newMemSupplierRepo() *memSupplierRepo {
	return &memSupplierRepo{rows: map[uint]models.Supplier{}}
}

func (r *memSupplierRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make(map[uint]models.Supplier, len(r.rows))
	for id, s := range r.rows {
		saved[id] = s
	}
	next := r.next
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.rows = saved
		r.next = next
	}
}

func (r *memSupplierRepo) ByID(_ context.Context, id uint) (*models.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *memSupplierRepo) ByCode(_ context.Context, code string) (*models.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.rows {
		if s.Code == code {
			return &s, nil
		}
	}
	return nil, nil
}

func (r *memSupplierRepo) ByCodes(ctx context.Context, codes []string) ([]*models.Supplier, error) {
	var out []*models.Supplier
	for _, code := range codes {
		s, _ := r.ByCode(ctx, code)
		if s != nil {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memSupplierRepo) ByFilter(_ context.Context, filter models.SupplierFilter, _ string, _, _ int) ([]*models.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Supplier
	for _, s := range r.rows {
		if filter.IsActive != nil && (s.IsActive == nil || *s.IsActive != *filter.IsActive) {
			continue
		}
		if filter.Keyword != nil && !strings.Contains(strings.ToLower(s.Code+" "+s.Name), strings.ToLower(*filter.Keyword)) {
			continue
		}
		s := s
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *memSupplierRepo) Save(_ context.Context, s *models.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	s.ID = r.next
	s.CreatedAt = time.Now().UTC()
	s.UpdatedAt = s.CreatedAt
	r.rows[s.ID] = *s
	return nil
}

func (r *memSupplierRepo) SaveBatch(ctx context.Context, rows []*models.Supplier) error {
	for _, s := range rows {
		if err := r.Save(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (r *memSupplierRepo) Update(_ context.Context, s *models.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[s.ID] = *s
	return nil
}

func (r *memSupplierRepo) Count(ctx context.Context, filter models.SupplierFilter) (int64, error) {
	rows, err := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), err
}

func (r *memSupplierRepo) Exists(ctx context.Context, filter models.SupplierFilter) (bool, error) {
	n, err := r.Count(ctx, filter)
	return n > 0, err
}

type memBillRepo struct {
	bills   map[uint]models.Bill
	details map[uint]models.BillDetail
}

func newMemBillRepo() *memBillRepo {
	return &memBillRepo{bills: map[uint]models.Bill{}, details: map[uint]models.BillDetail{}}
}

func (r *memBillRepo) ByID(_ context.Context, id uint) (*models.Bill, error) {
	b, ok := r.bills[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *memBillRepo) ByIDWithDetails(ctx context.Context, id uint) (*models.Bill, error) {
	return r.ByID(ctx, id)
}

func (r *memBillRepo) DetailByID(_ context.Context, id uint) (*models.BillDetail, error) {
	d, ok := r.details[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *memBillRepo) ByFilter(_ context.Context, filter models.BillFilter, _ string, _, _ int) ([]*models.Bill, error) {
	var out []*models.Bill
	for _, b := range r.bills {
		if filter.BillNo != nil && b.BillNo != *filter.BillNo {
			continue
		}
		b := b
		out = append(out, &b)
	}
	return out, nil
}

func (r *memBillRepo) Save(_ context.Context, b *models.Bill) error {
	b.ID = uint(len(r.bills) + 1)
	b.CreatedAt = time.Now().UTC()
	for i := range b.Details {
		b.Details[i].ID = uint(len(r.details) + 1)
		b.Details[i].BillID = b.ID
		r.details[b.Details[i].ID] = b.Details[i]
	}
	r.bills[b.ID] = *b
	return nil
}

func (r *memBillRepo) SaveBatch(ctx context.Context, bills []*models.Bill) error {
	for _, b := range bills {
		if err := r.Save(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

func (r *memBillRepo) Count(ctx context.Context, filter models.BillFilter) (int64, error) {
	rows, err := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), err
}

func (r *memBillRepo) Exists(ctx context.Context, filter models.BillFilter) (bool, error) {
	n, err := r.Count(ctx, filter)
	return n > 0, err
}

type memSettingRepo struct {
	rows  map[string]models.SystemSetting
	reads int
}

func newMemSettingRepo() *memSettingRepo {
	return &memSettingRepo{rows: map[string]models.SystemSetting{}}
}

func (r *memSettingRepo) ByKey(_ context.Context, key string) (*models.SystemSetting, error) {
	r.reads++
	s, ok := r.rows[key]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *memSettingRepo) List(_ context.Context) ([]*models.SystemSetting, error) {
	var out []*models.SystemSetting
	for _, s := range r.rows {
		s := s
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (r *memSettingRepo) Upsert(_ context.Context, s *models.SystemSetting) error {
	r.rows[s.Key] = *s
	return nil
}

type memRoleRepo struct {
	roles  map[uint]models.Role
	grants map[uint][]uint
}

func newMemRoleRepo(roles ...models.Role) *memRoleRepo {
	r := &memRoleRepo{roles: map[uint]models.Role{}, grants: map[uint][]uint{}}
	for _, role := range roles {
		r.roles[role.ID] = role
	}
	return r
}

func (r *memRoleRepo) ByID(_ context.Context, id uint) (*models.Role, error) {
	role, ok := r.roles[id]
	if !ok {
		return nil, nil
	}
	return &role, nil
}

func (r *memRoleRepo) ByCode(_ context.Context, code string) (*models.Role, error) {
	for _, role := range r.roles {
		if role.Code == code {
			return &role, nil
		}
	}
	return nil, nil
}

func (r *memRoleRepo) List(_ context.Context) ([]*models.Role, error) {
	var out []*models.Role
	for _, role := range r.roles {
		role := role
		out = append(out, &role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRoleRepo) Save(_ context.Context, role *models.Role) error {
	role.ID = uint(len(r.roles) + 1)
	r.roles[role.ID] = *role
	return nil
}

func (r *memRoleRepo) MenuIDs(_ context.Context, roleID uint) ([]uint, error) {
	return append([]uint(nil), r.grants[roleID]...), nil
}

func (r *memRoleRepo) ReplaceMenus(_ context.Context, roleID uint, menuIDs []uint) error {
	r.grants[roleID] = append([]uint(nil), menuIDs...)
	return nil
}

type memMenuRepo struct {
	menus map[uint]models.Menu
}

func newMemMenuRepo(menus ...models.Menu) *memMenuRepo {
	r := &memMenuRepo{menus: map[uint]models.Menu{}}
	for _, m := range menus {
		r.menus[m.ID] = m
	}
	return r
}

func (r *memMenuRepo) ByID(_ context.Context, id uint) (*models.Menu, error) {
	m, ok := r.menus[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *memMenuRepo) ByCode(_ context.Context, code string) (*models.Menu, error) {
	for _, m := range r.menus {
		if m.Code == code {
			return &m, nil
		}
	}
	return nil, nil
}

func (r *memMenuRepo) ByFilter(_ context.Context, filter models.MenuFilter, _ string, _, _ int) ([]*models.Menu, error) {
	var out []*models.Menu
	for _, m := range r.menus {
		if len(filter.IDs) > 0 && !containsUint(filter.IDs, m.ID) {
			continue
		}
		m := m
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func containsUint(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (r *memMenuRepo) Save(_ context.Context, m *models.Menu) error {
	var maxID uint
	for id := range r.menus {
		if id > maxID {
			maxID = id
		}
	}
	m.ID = maxID + 1
	r.menus[m.ID] = *m
	return nil
}

func (r *memMenuRepo) SaveBatch(ctx context.Context, menus []*models.Menu) error {
	for _, m := range menus {
		if err := r.Save(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *memMenuRepo) Update(_ context.Context, m *models.Menu) error {
	r.menus[m.ID] = *m
	return nil
}

func (r *memMenuRepo) Delete(_ context.Context, id uint) error {
	delete(r.menus, id)
	return nil
}

func (r *memMenuRepo) Count(ctx context.Context, filter models.MenuFilter) (int64, error) {
	rows, err := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), err
}

func (r *memMenuRepo) Exists(ctx context.Context, filter models.MenuFilter) (bool, error) {
	n, err := r.Count(ctx, filter)
	return n > 0, err
}

// countingMenuCache is an in-memory MenuCache that records invalidations
type countingMenuCache struct {
	entries     map[uint][]models.Menu
	invalidated []uint
}

func newCountingMenuCache() *countingMenuCache {
	return &countingMenuCache{entries: map[uint][]models.Menu{}}
}

func (c *countingMenuCache) Get(_ context.Context, roleID uint) ([]models.Menu, bool) {
	m, ok := c.entries[roleID]
	return m, ok
}

func (c *countingMenuCache) Set(_ context.Context, roleID uint, menus []models.Menu) {
	c.entries[roleID] = menus
}

func (c *countingMenuCache) Invalidate(_ context.Context, roleIDs ...uint) {
	for _, id := range roleIDs {
		delete(c.entries, id)
		c.invalidated = append(c.invalidated, id)
	}
}

type memOperatorRepo struct {
	mu      sync.Mutex
	rows    map[uint]*models.Operator
	nextID  uint
	lookups int
}

func newMemOperatorRepo(ops ...models.Operator) *memOperatorRepo {
	r := &memOperatorRepo{rows: map[uint]*models.Operator{}}
	for i := range ops {
		op := ops[i]
		r.nextID++
		op.ID = r.nextID
		r.rows[op.ID] = &op
	}
	return r
}

func (r *memOperatorRepo) ByID(_ context.Context, id uint) (*models.Operator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if op, ok := r.rows[id]; ok {
		cp := *op
		return &cp, nil
	}
	return nil, nil
}

func (r *memOperatorRepo) ByUsername(_ context.Context, username string) (*models.Operator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	for _, op := range r.rows {
		if op.Username == username {
			cp := *op
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memOperatorRepo) ByFilter(_ context.Context, filter models.OperatorFilter, _ string, _, _ int) ([]*models.Operator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Operator
	for _, op := range r.rows {
		if filter.RoleID != nil && op.RoleID != *filter.RoleID {
			continue
		}
		cp := *op
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memOperatorRepo) Save(_ context.Context, op *models.Operator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	op.ID = r.nextID
	cp := *op
	r.rows[op.ID] = &cp
	return nil
}

func (r *memOperatorRepo) SaveBatch(ctx context.Context, ops []*models.Operator) error {
	for _, op := range ops {
		if err := r.Save(ctx, op); err != nil {
			return err
		}
	}
	return nil
}

func (r *memOperatorRepo) Count(ctx context.Context, filter models.OperatorFilter) (int64, error) {
	rows, _ := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), nil
}

func (r *memOperatorRepo) Exists(ctx context.Context, filter models.OperatorFilter) (bool, error) {
	n, _ := r.Count(ctx, filter)
	return n > 0, nil
}

func (r *memOperatorRepo) UpdateLastLogin(_ context.Context, id uint, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if op, ok := r.rows[id]; ok {
		op.LastLoginAt = &at
	}
	return nil
}

func (r *memOperatorRepo) setActive(id uint, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[id].IsActive = &active
}
