package repository

import (
	"context"

	"anoa.com/tradeaid/internal/model"
	"gorm.io/gorm"
)

type CommunityRepository interface {
	FindAll(ctx context.Context) ([]*model.Community, error)
	FindByID(ctx context.Context, id uint) (*model.Community, error)
	Create(ctx context.Context, community *model.Community) error
	FindJoinRequest(ctx context.Context, userID, communityID uint) (*model.JoinRequest, error)
	CreateJoinRequest(ctx context.Context, request *model.JoinRequest) error
}

type communityRepository struct {
	db *gorm.DB
}

func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &communityRepository{db: db}
}

func (r *communityRepository) FindAll(ctx context.Context) ([]*model.Community, error) {
	var communities []*model.Community
	if err := r.db.WithContext(ctx).
		Order("id").
		Find(&communities).Error; err != nil {
		return nil, err
	}

	return communities, nil
}

func (r *communityRepository) FindByID(ctx context.Context, id uint) (*model.Community, error) {
	var community model.Community
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&community).Error; err != nil {
		return nil, err
	}

	return &community, nil
}

func (r *communityRepository) Create(ctx context.Context, community *model.Community) error {
	return r.db.WithContext(ctx).Create(community).Error
}

func (r *communityRepository) FindJoinRequest(ctx context.Context, userID, communityID uint) (*model.JoinRequest, error) {
	var request model.JoinRequest
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND community_id = ?", userID, communityID).
		First(&request).Error; err != nil {
		return nil, err
	}

	return &request, nil
}

func (r *communityRepository) CreateJoinRequest(ctx context.Context, request *model.JoinRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}
