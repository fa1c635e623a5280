package service_test

import (
	"context"
	"io"

	"anoa.com/tradeaid/internal/model"
	"gorm.io/gorm"
)

// In-memory repository fakes. They mimic the storage-layer behavior the
// services rely on: record-not-found and duplicated-key errors come back as
// the gorm sentinels the real Postgres repositories produce.

type mockUserRepo struct {
	users  map[string]*model.User
	nextID uint

	createErr error
	// lastUpdateFields captures what UpdateProfile was asked to change.
	lastUpdateFields map[string]interface{}
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[string]*model.User{}}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.users[user.Email]; exists {
		return gorm.ErrDuplicatedKey
	}
	m.nextID++
	user.ID = m.nextID
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id uint) (*model.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, email string, fields map[string]interface{}) (*model.User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	m.lastUpdateFields = fields

	for k, v := range fields {
		s, _ := v.(string)
		switch k {
		case "full_name":
			u.FullName = s
		case "gender":
			u.Gender = &s
		case "address":
			u.Address = &s
		case "phone":
			u.Phone = &s
		case "profile_picture":
			u.ProfilePicture = &s
		}
	}
	u.ProfileCompleted = true
	return u, nil
}

type mockCommunityRepo struct {
	communities []*model.Community
	requests    []*model.JoinRequest
	nextID      uint
}

func newMockCommunityRepo() *mockCommunityRepo {
	return &mockCommunityRepo{}
}

func (m *mockCommunityRepo) FindAll(_ context.Context) ([]*model.Community, error) {
	return m.communities, nil
}

func (m *mockCommunityRepo) FindByID(_ context.Context, id uint) (*model.Community, error) {
	for _, c := range m.communities {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCommunityRepo) Create(_ context.Context, community *model.Community) error {
	m.nextID++
	community.ID = m.nextID
	m.communities = append(m.communities, community)
	return nil
}

func (m *mockCommunityRepo) FindJoinRequest(_ context.Context, userID, communityID uint) (*model.JoinRequest, error) {
	for _, r := range m.requests {
		if r.UserID == userID && r.CommunityID == communityID {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type mockFileStorage struct {
	ref          string
	lastFileName string
}

func (m *mockFileStorage) Upload(_ context.Context, r io.Reader, _, fileName string) (string, error) {
	_, _ = io.ReadAll(r)
	m.lastFileName = fileName
	return m.ref, nil
}

func (m *mockFileStorage) Delete(_ context.Context, _ string) error {
	return nil
}

func (m *mockCommunityRepo) CreateJoinRequest(_ context.Context, request *model.JoinRequest) error {
	for _, r := range m.requests {
		if r.UserID == request.UserID && r.CommunityID == request.CommunityID {
			return gorm.ErrDuplicatedKey
		}
	}
	m.nextID++
	request.ID = m.nextID
	m.requests = append(m.requests, request)
	return nil
}
