package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	guardianrepo "github.com/rskala/campusbridge-backend/internal/data/repos/guardian"
	identityrepo "github.com/rskala/campusbridge-backend/internal/data/repos/identity"
	studentrepo "github.com/rskala/campusbridge-backend/internal/data/repos/student"
	types "github.com/rskala/campusbridge-backend/internal/domain"
	guardiandom "github.com/rskala/campusbridge-backend/internal/domain/guardian"
	"github.com/rskala/campusbridge-backend/internal/domain/identity"
	"github.com/rskala/campusbridge-backend/internal/domain/portal"
	"github.com/rskala/campusbridge-backend/internal/pkg/apperr"
	"github.com/rskala/campusbridge-backend/internal/pkg/dbctx"
	"github.com/rskala/campusbridge-backend/internal/pkg/pagination"
	"github.com/rskala/campusbridge-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("new test logger: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

// fakeStore is the shared in-memory backing for all fake repos. Rows are
// stored by value so snapshots are cheap and mutation-safe.
type fakeStore struct {
	users     map[uuid.UUID]types.User
	guardians map[uuid.UUID]types.Guardian
	students  map[uuid.UUID]types.Student
	links     map[[2]uuid.UUID]types.GuardianStudentLink

	now time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     map[uuid.UUID]types.User{},
		guardians: map[uuid.UUID]types.Guardian{},
		students:  map[uuid.UUID]types.Student{},
		links:     map[[2]uuid.UUID]types.GuardianStudentLink{},
		now:       time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
}

// tick advances and returns the store clock, keeping timestamps distinct and
// deterministic.
func (s *fakeStore) tick() time.Time {
	s.now = s.now.Add(time.Minute)
	return s.now
}

func (s *fakeStore) snapshot() *fakeStore {
	cp := newFakeStore()
	cp.now = s.now
	for k, v := range s.users {
		cp.users[k] = v
	}
	for k, v := range s.guardians {
		cp.guardians[k] = v
	}
	for k, v := range s.students {
		cp.students[k] = v
	}
	for k, v := range s.links {
		cp.links[k] = v
	}
	return cp
}

func (s *fakeStore) restore(from *fakeStore) {
	s.users = from.users
	s.guardians = from.guardians
	s.students = from.students
	s.links = from.links
	s.now = from.now
}

// fakeRunner mimics transactional semantics over the fake store: on error
// the store is restored to its pre-transaction state.
type fakeRunner struct {
	store *fakeStore
}

func (r *fakeRunner) WithTransaction(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	before := r.store.snapshot()
	if err := fn(dbctx.Context{Ctx: ctx}); err != nil {
		r.store.restore(before)
		return err
	}
	return nil
}

// --- identity ---

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) Create(_ dbctx.Context, user *types.User) (*types.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = r.store.tick()
	r.store.users[user.ID] = *user
	return user, nil
}

func (r *fakeUserRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*types.User, error) {
	if u, ok := r.store.users[id]; ok {
		cp := u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(_ dbctx.Context, email string) (*types.User, error) {
	for _, u := range r.store.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByHandle(_ dbctx.Context, handle string) (*types.User, error) {
	for _, u := range r.store.users {
		if u.Handle == handle {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) EmailExists(dbc dbctx.Context, email string) (bool, error) {
	u, _ := r.GetByEmail(dbc, email)
	return u != nil, nil
}

func (r *fakeUserRepo) HandleExists(dbc dbctx.Context, handle string) (bool, error) {
	u, _ := r.GetByHandle(dbc, handle)
	return u != nil, nil
}

func (r *fakeUserRepo) Update(dbc dbctx.Context, id uuid.UUID, patch identityrepo.UserPatch) (*types.User, error) {
	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	if patch.DisplayName != nil {
		u.DisplayName = *patch.DisplayName
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	if patch.Status != nil {
		u.Status = *patch.Status
	}
	if patch.Phone != nil {
		u.Phone = *patch.Phone
	}
	if patch.Metadata != nil {
		u.Metadata = patch.Metadata
	}
	r.store.users[id] = u
	return r.GetByID(dbc, id)
}

func (r *fakeUserRepo) Search(_ dbctx.Context, filters identityrepo.SearchUsersFilters) ([]*types.User, int64, error) {
	var matched []types.User
	for _, u := range r.store.users {
		if filters.Query != "" &&
			!strings.Contains(u.Email, filters.Query) &&
			!strings.Contains(u.Handle, filters.Query) &&
			!strings.Contains(u.DisplayName, filters.Query) {
			continue
		}
		if filters.Role != "" && u.Role != filters.Role {
			continue
		}
		if filters.Status != "" && u.Status != filters.Status {
			continue
		}
		matched = append(matched, u)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := int64(len(matched))
	p := pagination.Normalize(filters.Page, filters.Limit)
	if p.Skip >= len(matched) {
		return nil, total, nil
	}
	end := p.Skip + p.Limit
	if end > len(matched) {
		end = len(matched)
	}
	out := make([]*types.User, 0, end-p.Skip)
	for i := p.Skip; i < end; i++ {
		cp := matched[i]
		out = append(out, &cp)
	}
	return out, total, nil
}

func (r *fakeUserRepo) Delete(_ dbctx.Context, id uuid.UUID) error {
	delete(r.store.users, id)
	return nil
}

// --- guardians ---

type fakeGuardianRepo struct {
	store *fakeStore
}

func (r *fakeGuardianRepo) Create(_ dbctx.Context, g *types.Guardian) (*types.Guardian, error) {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	g.CreatedAt = r.store.tick()
	stored := *g
	stored.User = nil
	stored.Links = nil
	r.store.guardians[g.ID] = stored
	return g, nil
}

func (r *fakeGuardianRepo) hydrate(g types.Guardian, opts guardianrepo.QueryOptions) *types.Guardian {
	cp := g
	if u, ok := r.store.users[g.UserID]; ok {
		ucp := u
		cp.User = &ucp
	}
	if opts.WithLinks {
		links := &fakeLinkRepo{store: r.store}
		all, _ := links.ListForGuardian(dbctx.Context{}, g.ID, guardianrepo.ListLinksOptions{})
		cp.Links = nil
		for _, l := range all {
			if l.Status == guardiandom.LinkRevoked {
				continue
			}
			cp.Links = append(cp.Links, *l)
		}
	}
	return &cp
}

func (r *fakeGuardianRepo) GetByID(_ dbctx.Context, id uuid.UUID, opts guardianrepo.QueryOptions) (*types.Guardian, error) {
	if g, ok := r.store.guardians[id]; ok {
		return r.hydrate(g, opts), nil
	}
	return nil, nil
}

func (r *fakeGuardianRepo) GetByUserID(_ dbctx.Context, userID uuid.UUID, opts guardianrepo.QueryOptions) (*types.Guardian, error) {
	for _, g := range r.store.guardians {
		if g.UserID == userID {
			return r.hydrate(g, opts), nil
		}
	}
	return nil, nil
}

func (r *fakeGuardianRepo) UserIDExists(dbc dbctx.Context, userID uuid.UUID) (bool, error) {
	g, _ := r.GetByUserID(dbc, userID, guardianrepo.QueryOptions{})
	return g != nil, nil
}

func (r *fakeGuardianRepo) Update(dbc dbctx.Context, id uuid.UUID, patch guardianrepo.GuardianPatch) (*types.Guardian, error) {
	g, ok := r.store.guardians[id]
	if !ok {
		return nil, nil
	}
	if patch.Phone != nil {
		g.Phone = *patch.Phone
	}
	if patch.SecondaryEmail != nil {
		g.SecondaryEmail = *patch.SecondaryEmail
	}
	if patch.Address != nil {
		g.Address = *patch.Address
	}
	if patch.Notes != nil {
		g.Notes = *patch.Notes
	}
	if patch.Metadata != nil {
		g.Metadata = patch.Metadata
	}
	r.store.guardians[id] = g
	return r.GetByID(dbc, id, guardianrepo.QueryOptions{WithLinks: true})
}

func (r *fakeGuardianRepo) Search(_ dbctx.Context, filters guardianrepo.SearchGuardiansFilters) ([]*types.Guardian, int64, error) {
	var matched []types.Guardian
	for _, g := range r.store.guardians {
		u := r.store.users[g.UserID]
		if filters.Query != "" &&
			!strings.Contains(u.Email, filters.Query) &&
			!strings.Contains(u.DisplayName, filters.Query) &&
			!strings.Contains(g.Phone, filters.Query) {
			continue
		}
		if filters.Status != "" && u.Status != filters.Status {
			continue
		}
		if filters.StudentID != uuid.Nil {
			l, ok := r.store.links[[2]uuid.UUID{g.ID, filters.StudentID}]
			if !ok || l.Status == guardiandom.LinkRevoked {
				continue
			}
		}
		matched = append(matched, g)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := int64(len(matched))
	p := pagination.Normalize(filters.Page, filters.Limit)
	if p.Skip >= len(matched) {
		return nil, total, nil
	}
	end := p.Skip + p.Limit
	if end > len(matched) {
		end = len(matched)
	}
	out := make([]*types.Guardian, 0, end-p.Skip)
	for i := p.Skip; i < end; i++ {
		out = append(out, r.hydrate(matched[i], guardianrepo.QueryOptions{}))
	}
	return out, total, nil
}

// --- links ---

type fakeLinkRepo struct {
	store *fakeStore
}

func (r *fakeLinkRepo) key(guardianID, studentID uuid.UUID) [2]uuid.UUID {
	return [2]uuid.UUID{guardianID, studentID}
}

func (r *fakeLinkRepo) Upsert(_ dbctx.Context, guardianID, studentID uuid.UUID, attrs guardianrepo.LinkAttrs) (*types.GuardianStudentLink, error) {
	status := attrs.Status
	if status == "" {
		status = guardiandom.LinkActive
	}
	now := r.store.tick()
	k := r.key(guardianID, studentID)

	link, exists := r.store.links[k]
	if !exists {
		link = types.GuardianStudentLink{
			ID:         uuid.New(),
			GuardianID: guardianID,
			StudentID:  studentID,
			LinkedAt:   now,
		}
	}
	if attrs.Relationship != nil {
		link.Relationship = *attrs.Relationship
	}
	if attrs.IsPrimary != nil {
		link.IsPrimary = *attrs.IsPrimary
	}
	if attrs.Metadata != nil {
		link.Metadata = attrs.Metadata
	}
	if status == guardiandom.LinkRevoked {
		if link.Status != guardiandom.LinkRevoked || link.RevokedAt == nil {
			link.RevokedAt = &now
		}
	} else {
		link.RevokedAt = nil
	}
	if status == guardiandom.LinkInvited && link.InvitedAt == nil {
		link.InvitedAt = &now
	}
	link.Status = status
	r.store.links[k] = link
	cp := link
	return &cp, nil
}

func (r *fakeLinkRepo) UpdateByPair(dbc dbctx.Context, guardianID, studentID uuid.UUID, patch guardianrepo.LinkPatch) (*types.GuardianStudentLink, error) {
	k := r.key(guardianID, studentID)
	link, ok := r.store.links[k]
	if !ok {
		return nil, apperr.NotFound("guardian-student link")
	}
	if patch.Relationship != nil {
		link.Relationship = *patch.Relationship
	}
	if patch.IsPrimary != nil {
		link.IsPrimary = *patch.IsPrimary
	}
	if patch.Metadata != nil {
		link.Metadata = patch.Metadata
	}
	if patch.Status != nil {
		now := r.store.tick()
		if *patch.Status == guardiandom.LinkRevoked {
			if link.Status != guardiandom.LinkRevoked || link.RevokedAt == nil {
				link.RevokedAt = &now
			}
		} else {
			link.RevokedAt = nil
		}
		if *patch.Status == guardiandom.LinkInvited && link.InvitedAt == nil {
			link.InvitedAt = &now
		}
		link.Status = *patch.Status
	}
	r.store.links[k] = link
	cp := link
	return &cp, nil
}

func (r *fakeLinkRepo) RevokeByPair(_ dbctx.Context, guardianID, studentID uuid.UUID) error {
	k := r.key(guardianID, studentID)
	link, ok := r.store.links[k]
	if !ok || link.Status == guardiandom.LinkRevoked {
		return nil
	}
	now := r.store.tick()
	link.Status = guardiandom.LinkRevoked
	link.RevokedAt = &now
	r.store.links[k] = link
	return nil
}

func (r *fakeLinkRepo) GetByPair(_ dbctx.Context, guardianID, studentID uuid.UUID) (*types.GuardianStudentLink, error) {
	if link, ok := r.store.links[r.key(guardianID, studentID)]; ok {
		cp := link
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeLinkRepo) hydrate(link types.GuardianStudentLink) *types.GuardianStudentLink {
	cp := link
	if st, ok := r.store.students[link.StudentID]; ok {
		stcp := st
		if u, ok := r.store.users[st.UserID]; ok {
			ucp := u
			stcp.User = &ucp
		}
		cp.Student = &stcp
	}
	return &cp
}

func (r *fakeLinkRepo) ListForGuardian(_ dbctx.Context, guardianID uuid.UUID, opts guardianrepo.ListLinksOptions) ([]*types.GuardianStudentLink, error) {
	var out []*types.GuardianStudentLink
	for _, link := range r.store.links {
		if link.GuardianID != guardianID {
			continue
		}
		if opts.OnlyActive && link.Status != guardiandom.LinkActive {
			continue
		}
		out = append(out, r.hydrate(link))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LinkedAt.After(out[j].LinkedAt)
	})
	return out, nil
}

func (r *fakeLinkRepo) ListForStudent(_ dbctx.Context, studentID uuid.UUID, opts guardianrepo.ListLinksOptions) ([]*types.GuardianStudentLink, error) {
	var out []*types.GuardianStudentLink
	for _, link := range r.store.links {
		if link.StudentID != studentID {
			continue
		}
		if opts.OnlyActive && link.Status != guardiandom.LinkActive {
			continue
		}
		cp := link
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LinkedAt.After(out[j].LinkedAt)
	})
	return out, nil
}

func (r *fakeLinkRepo) PurgeByPair(_ dbctx.Context, guardianID, studentID uuid.UUID) error {
	delete(r.store.links, r.key(guardianID, studentID))
	return nil
}

// --- students ---

type fakeStudentRepo struct {
	store *fakeStore
}

func (r *fakeStudentRepo) Create(_ dbctx.Context, st *types.Student) error {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	st.CreatedAt = r.store.tick()
	stored := *st
	stored.User = nil
	r.store.students[st.ID] = stored
	return nil
}

func (r *fakeStudentRepo) hydrate(st types.Student) *types.Student {
	cp := st
	if u, ok := r.store.users[st.UserID]; ok {
		ucp := u
		cp.User = &ucp
	}
	return &cp
}

func (r *fakeStudentRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*types.Student, error) {
	if st, ok := r.store.students[id]; ok {
		return r.hydrate(st), nil
	}
	return nil, nil
}

func (r *fakeStudentRepo) GetByUserID(_ dbctx.Context, userID uuid.UUID) (*types.Student, error) {
	for _, st := range r.store.students {
		if st.UserID == userID {
			return r.hydrate(st), nil
		}
	}
	return nil, nil
}

func (r *fakeStudentRepo) CodeExists(_ dbctx.Context, code string) (bool, error) {
	for _, st := range r.store.students {
		if st.Code != nil && *st.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeStudentRepo) UserIDExists(dbc dbctx.Context, userID uuid.UUID) (bool, error) {
	st, _ := r.GetByUserID(dbc, userID)
	return st != nil, nil
}

func (r *fakeStudentRepo) Update(dbc dbctx.Context, id uuid.UUID, patch studentrepo.StudentPatch) (*types.Student, error) {
	st, ok := r.store.students[id]
	if !ok {
		return nil, nil
	}
	if patch.Code != nil {
		st.Code = patch.Code
	}
	if patch.Metadata != nil {
		st.Metadata = patch.Metadata
	}
	r.store.students[id] = st
	return r.GetByID(dbc, id)
}

func (r *fakeStudentRepo) DeleteByUserID(_ dbctx.Context, userID uuid.UUID) error {
	for id, st := range r.store.students {
		if st.UserID == userID {
			delete(r.store.students, id)
		}
	}
	return nil
}

// --- collaborator directories ---

var errDirectoryDown = errors.New("directory down")

type fakeScheduleDir struct {
	sections map[uuid.UUID][]portal.ClassSectionSummary
	sessions map[uuid.UUID][]portal.ScheduleItem
	fail     bool
}

func (d *fakeScheduleDir) ListClassSections(_ dbctx.Context, studentID uuid.UUID) ([]portal.ClassSectionSummary, error) {
	if d.fail {
		return nil, errDirectoryDown
	}
	return d.sections[studentID], nil
}

func (d *fakeScheduleDir) ListUpcomingSessions(_ dbctx.Context, studentID uuid.UUID, from time.Time, limit int) ([]portal.ScheduleItem, error) {
	if d.fail {
		return nil, errDirectoryDown
	}
	var out []portal.ScheduleItem
	for _, item := range d.sessions[studentID] {
		if item.StartsAt.Before(from) {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (d *fakeScheduleDir) ListSessions(_ dbctx.Context, studentID uuid.UUID, from, to *time.Time, limit int) ([]portal.ScheduleItem, error) {
	if d.fail {
		return nil, errDirectoryDown
	}
	var out []portal.ScheduleItem
	for _, item := range d.sessions[studentID] {
		if from != nil && item.StartsAt.Before(*from) {
			continue
		}
		if to != nil && !item.StartsAt.Before(*to) {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeAttendanceDir struct {
	entries map[uuid.UUID][]portal.AttendanceEntry
	tallies map[uuid.UUID]portal.AttendanceTally
	fail    bool
}

func (d *fakeAttendanceDir) ListForStudent(_ dbctx.Context, studentID uuid.UUID, from, to *time.Time, page, limit int) ([]portal.AttendanceEntry, int64, error) {
	if d.fail {
		return nil, 0, errDirectoryDown
	}
	all := d.entries[studentID]
	total := int64(len(all))
	p := pagination.Normalize(page, limit)
	if p.Skip >= len(all) {
		return nil, total, nil
	}
	end := p.Skip + p.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[p.Skip:end], total, nil
}

func (d *fakeAttendanceDir) TallyForStudent(_ dbctx.Context, studentID uuid.UUID, from, to *time.Time) (portal.AttendanceTally, error) {
	if d.fail {
		return portal.AttendanceTally{}, errDirectoryDown
	}
	return d.tallies[studentID], nil
}

type fakeGradeDir struct {
	grades map[uuid.UUID][]portal.GradeSummary
	fail   bool
}

func (d *fakeGradeDir) ListForStudent(_ dbctx.Context, studentID uuid.UUID, subjectID *uuid.UUID, page, limit int) ([]portal.GradeSummary, int64, error) {
	if d.fail {
		return nil, 0, errDirectoryDown
	}
	all := d.grades[studentID]
	total := int64(len(all))
	p := pagination.Normalize(page, limit)
	if p.Skip >= len(all) {
		return nil, total, nil
	}
	end := p.Skip + p.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[p.Skip:end], total, nil
}

func (d *fakeGradeDir) LatestForStudent(_ dbctx.Context, studentID uuid.UUID, limit int) ([]portal.GradeSummary, error) {
	if d.fail {
		return nil, errDirectoryDown
	}
	out := d.grades[studentID]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeBillingDir struct {
	invoices    map[uuid.UUID][]*types.Invoice
	outstanding map[uuid.UUID]int64
	fail        bool
}

func (d *fakeBillingDir) ListForStudent(_ dbctx.Context, studentID uuid.UUID, filters ListInvoicesQuery) ([]*types.Invoice, int64, error) {
	if d.fail {
		return nil, 0, errDirectoryDown
	}
	var all []*types.Invoice
	for _, inv := range d.invoices[studentID] {
		if filters.Status != nil && inv.Status != *filters.Status {
			continue
		}
		all = append(all, inv)
	}
	total := int64(len(all))
	p := pagination.Normalize(filters.Page, filters.Limit)
	if p.Skip >= len(all) {
		return nil, total, nil
	}
	end := p.Skip + p.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[p.Skip:end], total, nil
}

func (d *fakeBillingDir) SumOutstanding(_ dbctx.Context, studentID uuid.UUID) (int64, error) {
	if d.fail {
		return 0, errDirectoryDown
	}
	return d.outstanding[studentID], nil
}

// --- test harness ---

type harness struct {
	store        *fakeStore
	runner       *fakeRunner
	users        *fakeUserRepo
	guardians    *fakeGuardianRepo
	links        *fakeLinkRepo
	students     *fakeStudentRepo
	schedule     *fakeScheduleDir
	attendance   *fakeAttendanceDir
	grades       *fakeGradeDir
	billing      *fakeBillingDir
	access       *AccessGuard
	provisioning *ProvisioningService
	guardianSvc  *GuardiansService
	studentSvc   *StudentsService
	portal       *PortalService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := testLogger(t)
	store := newFakeStore()
	h := &harness{
		store:     store,
		runner:    &fakeRunner{store: store},
		users:     &fakeUserRepo{store: store},
		guardians: &fakeGuardianRepo{store: store},
		links:     &fakeLinkRepo{store: store},
		students:  &fakeStudentRepo{store: store},
		schedule: &fakeScheduleDir{
			sections: map[uuid.UUID][]portal.ClassSectionSummary{},
			sessions: map[uuid.UUID][]portal.ScheduleItem{},
		},
		attendance: &fakeAttendanceDir{
			entries: map[uuid.UUID][]portal.AttendanceEntry{},
			tallies: map[uuid.UUID]portal.AttendanceTally{},
		},
		grades: &fakeGradeDir{grades: map[uuid.UUID][]portal.GradeSummary{}},
		billing: &fakeBillingDir{
			invoices:    map[uuid.UUID][]*types.Invoice{},
			outstanding: map[uuid.UUID]int64{},
		},
	}
	h.access = NewAccessGuard(h.guardians, h.links, log)
	h.provisioning = NewProvisioningService(h.runner, h.users, h.guardians, h.links, h.students, 4, log)
	h.guardianSvc = NewGuardiansService(h.runner, h.provisioning, h.users, h.guardians, h.links, h.students, 4, log)
	h.studentSvc = NewStudentsService(h.runner, h.provisioning, h.users, h.students, h.links, log)
	h.portal = NewPortalService(h.guardians, h.links, h.access, h.schedule, h.attendance, h.grades, h.billing, log)
	return h
}

// seedStudent provisions a student account directly into the fake store.
func (h *harness) seedStudent(t *testing.T, email, name, code string) *types.Student {
	t.Helper()
	user := &types.User{
		ID:          uuid.New(),
		Email:       email,
		Handle:      strings.SplitN(email, "@", 2)[0],
		DisplayName: name,
		Role:        identity.RoleStudent,
		Status:      identity.StatusActive,
	}
	if _, err := h.users.Create(dbctx.Context{}, user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	st := &types.Student{UserID: user.ID}
	if code != "" {
		st.Code = &code
	}
	if err := h.students.Create(dbctx.Context{}, st); err != nil {
		t.Fatalf("seed student: %v", err)
	}
	return st
}

// seedGuardian provisions a guardian account directly into the fake store.
func (h *harness) seedGuardian(t *testing.T, email, name string) *types.Guardian {
	t.Helper()
	user := &types.User{
		ID:          uuid.New(),
		Email:       email,
		Handle:      strings.SplitN(email, "@", 2)[0],
		DisplayName: name,
		Role:        identity.RoleParent,
		Status:      identity.StatusActive,
	}
	if _, err := h.users.Create(dbctx.Context{}, user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	g := &types.Guardian{UserID: user.ID}
	if _, err := h.guardians.Create(dbctx.Context{}, g); err != nil {
		t.Fatalf("seed guardian: %v", err)
	}
	return g
}
