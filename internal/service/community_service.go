package service

import (
	"context"
	"errors"

	"anoa.com/tradeaid/internal/model"
	"anoa.com/tradeaid/internal/repository"
	"anoa.com/tradeaid/pkg/apperror"
	"anoa.com/tradeaid/pkg/geo"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// ProximityRadiusMeters is the radius used both for discovery and for the
// one-community-per-area rule. The boundary is inclusive.
const ProximityRadiusMeters = 2000

type CreateCommunityInput struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Lat         *float64 `json:"lat" binding:"required,latitude"`
	Lon         *float64 `json:"lon" binding:"required,longitude"`
}

type JoinInput struct {
	UserID      uint `json:"user_id" binding:"required"`
	CommunityID uint `json:"community_id" binding:"required"`
}

// NearbyCommunityError reports a community-creation conflict and carries the
// existing community so the response can include it.
type NearbyCommunityError struct {
	Existing *model.Community
}

func (e *NearbyCommunityError) Error() string {
	return "Community already exists nearby"
}

func (e *NearbyCommunityError) Unwrap() error {
	return apperror.ErrConflict
}

// ResolutionPolicy decides the status of a join request whenever its
// approval or rejection counts change. The production threshold algorithm
// (60% of community membership) is a future policy; until it is defined the
// shipped policy keeps every request pending.
type ResolutionPolicy interface {
	Resolve(request *model.JoinRequest) model.JoinStatus
}

type pendingPolicy struct{}

func (pendingPolicy) Resolve(*model.JoinRequest) model.JoinStatus {
	return model.JoinPending
}

// NewPendingPolicy returns the policy that never resolves a request.
func NewPendingPolicy() ResolutionPolicy {
	return pendingPolicy{}
}

type CommunityService interface {
	FindNearby(ctx context.Context, origin geo.Point) ([]*model.Community, error)
	Create(ctx context.Context, input CreateCommunityInput) (*model.Community, error)
	Join(ctx context.Context, input JoinInput) (*model.JoinRequest, error)
}

type communityService struct {
	repo      repository.CommunityRepository
	policy    ResolutionPolicy
	sanitizer *bluemonday.Policy
}

func NewCommunityService(repo repository.CommunityRepository, policy ResolutionPolicy) CommunityService {
	if policy == nil {
		policy = NewPendingPolicy()
	}
	return &communityService{
		repo:      repo,
		policy:    policy,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// FindNearby scans every community and keeps those within the fixed radius.
// The filter runs client-side; at this system's scale a linear scan beats
// maintaining a spatial index.
func (s *communityService) FindNearby(ctx context.Context, origin geo.Point) ([]*model.Community, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	return geo.WithinRadius(origin, all, ProximityRadiusMeters), nil
}

func (s *communityService) Create(ctx context.Context, input CreateCommunityInput) (*model.Community, error) {
	origin := geo.Point{Lat: *input.Lat, Lon: *input.Lon}

	// Check-then-act: two concurrent creations for nearby coordinates can
	// both pass this check. Accepted as best effort; there is no spatial
	// uniqueness constraint to fall back on.
	nearby, err := s.FindNearby(ctx, origin)
	if err != nil {
		return nil, err
	}
	if len(nearby) > 0 {
		return nil, &NearbyCommunityError{Existing: nearby[0]}
	}

	community := &model.Community{
		Name:        s.sanitizer.Sanitize(input.Name),
		Description: s.sanitizer.Sanitize(input.Description),
		Lat:         origin.Lat,
		Lon:         origin.Lon,
	}

	if err := s.repo.Create(ctx, community); err != nil {
		return nil, err
	}

	return community, nil
}

func (s *communityService) Join(ctx context.Context, input JoinInput) (*model.JoinRequest, error) {
	if _, err := s.repo.FindByID(ctx, input.CommunityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "Community not found")
		}
		return nil, err
	}

	if _, err := s.repo.FindJoinRequest(ctx, input.UserID, input.CommunityID); err == nil {
		return nil, apperror.Wrap(apperror.ErrConflict, "Already requested to join")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	request := &model.JoinRequest{
		UserID:      input.UserID,
		CommunityID: input.CommunityID,
		Approvals:   0,
		Rejections:  0,
	}
	request.Status = s.policy.Resolve(request)

	if err := s.repo.CreateJoinRequest(ctx, request); err != nil {
		// The composite unique index closes the pre-check race.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Wrap(apperror.ErrConflict, "Already requested to join")
		}
		return nil, err
	}

	return request, nil
}
