package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dream-society/unity-nest/internal/dto"
	"github.com/dream-society/unity-nest/internal/model"
	"github.com/dream-society/unity-nest/internal/repository"
	"github.com/dream-society/unity-nest/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users      map[uuid.UUID]*model.User
	lastFilter repository.MemberFilter
	taken      bool
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	m := make(map[uuid.UUID]*model.User)
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserRepo{users: m}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User, _ *model.Profile) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) EmailOrPhoneTaken(_ context.Context, _, _ string, _ uuid.UUID) (bool, error) {
	return f.taken, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) ListMembers(_ context.Context, filter repository.MemberFilter) ([]model.User, int64, error) {
	f.lastFilter = filter

	var out []model.User
	for _, u := range f.users {
		if u.Role != model.RoleMember {
			continue
		}
		if len(filter.IDs) > 0 {
			found := false
			for _, id := range filter.IDs {
				if id == u.ID {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) ListAll(_ context.Context, _, _ int) ([]model.User, int64, error) {
	var out []model.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) FindAllMembers(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range f.users {
		if u.Role == model.RoleMember {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	var n int64
	for _, u := range f.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (f *fakeUserRepo) CountCreatedSince(_ context.Context, since time.Time) (int64, error) {
	var n int64
	for _, u := range f.users {
		if !u.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type fakeSearch struct {
	hits    []uuid.UUID
	err     error
	indexed []string
}

func (f *fakeSearch) IndexMember(user *model.User) error {
	f.indexed = append(f.indexed, user.ID.String())
	return nil
}

func (f *fakeSearch) RemoveMember(string) error { return nil }

func (f *fakeSearch) Search(string, int) ([]uuid.UUID, error) {
	return f.hits, f.err
}

func (f *fakeSearch) ReindexAll(users []model.User) (int, error) {
	return len(users), nil
}

func member(name, email string) *model.User {
	return &model.User{
		ID:       uuid.New(),
		FullName: name,
		Email:    email,
		Role:     model.RoleMember,
	}
}

func TestListMembersUsesSearchHits(t *testing.T) {
	a := member("Anil Kumar", "anil@example.com")
	b := member("Bhavani Devi", "bhavani@example.com")
	repo := newFakeUserRepo(a, b)

	search := &fakeSearch{hits: []uuid.UUID{a.ID}}
	svc := NewMemberService(repo, search)

	resp, err := svc.ListMembers(context.Background(), dto.MemberFilter{Search: "anil"})
	require.NoError(t, err)

	require.Len(t, resp.Members, 1)
	assert.Equal(t, a.ID, resp.Members[0].ID)
	assert.Equal(t, []uuid.UUID{a.ID}, repo.lastFilter.IDs)
}

func TestListMembersFallsBackOnSearchError(t *testing.T) {
	a := member("Anil Kumar", "anil@example.com")
	repo := newFakeUserRepo(a)

	search := &fakeSearch{err: errors.New("index down")}
	svc := NewMemberService(repo, search)

	resp, err := svc.ListMembers(context.Background(), dto.MemberFilter{Search: "anil"})
	require.NoError(t, err)

	assert.Empty(t, repo.lastFilter.IDs)
	assert.Equal(t, "anil", repo.lastFilter.Search)
	assert.Len(t, resp.Members, 1)
}

func TestListMembersEmptySearchHits(t *testing.T) {
	repo := newFakeUserRepo(member("Anil Kumar", "anil@example.com"))
	svc := NewMemberService(repo, &fakeSearch{hits: nil})

	resp, err := svc.ListMembers(context.Background(), dto.MemberFilter{Search: "nobody"})
	require.NoError(t, err)

	assert.Empty(t, resp.Members)
	assert.Zero(t, resp.Pagination.Total)
}

func TestGetUserAuthorization(t *testing.T) {
	a := member("Anil Kumar", "anil@example.com")
	b := member("Bhavani Devi", "bhavani@example.com")
	repo := newFakeUserRepo(a, b)
	svc := NewMemberService(repo, nil)

	// Self access works.
	got, err := svc.GetUser(context.Background(), a.ID, model.RoleMember, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	// Another member is rejected.
	_, err = svc.GetUser(context.Background(), a.ID, model.RoleMember, b.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	// An admin can read anyone.
	_, err = svc.GetUser(context.Background(), uuid.New(), model.RoleAdmin, b.ID)
	assert.NoError(t, err)
}

func TestUpdateUserRoleChangeRequiresPrivilege(t *testing.T) {
	a := member("Anil Kumar", "anil@example.com")
	repo := newFakeUserRepo(a)
	svc := NewMemberService(repo, nil)

	admin := model.RoleAdmin
	got, err := svc.UpdateUser(context.Background(), a.ID, model.RoleMember, a.ID, dto.UpdateUserInput{Role: &admin})
	require.NoError(t, err)

	// A member cannot promote themselves.
	assert.Equal(t, model.RoleMember, got.Role)

	got, err = svc.UpdateUser(context.Background(), uuid.New(), model.RoleAdmin, a.ID, dto.UpdateUserInput{Role: &admin})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, got.Role)
}

func TestUpdateUserRejectsTakenEmail(t *testing.T) {
	a := member("Anil Kumar", "anil@example.com")
	repo := newFakeUserRepo(a)
	repo.taken = true
	svc := NewMemberService(repo, nil)

	other := "taken@example.com"
	_, err := svc.UpdateUser(context.Background(), a.ID, model.RoleMember, a.ID, dto.UpdateUserInput{Email: &other})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}
