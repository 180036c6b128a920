package user

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type repoStub struct {
	Repository

	user  *User
	stats *AccountStats

	profilePatch *ProfilePatch

	createdSpot *FavoriteSpot
	spotDeleted bool

	replacedFilters []int64
	replaceCalled   bool
	replaceErr      error
}

func (r *repoStub) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.user, nil
}

func (r *repoStub) AccountStats(ctx context.Context, id uuid.UUID) (*AccountStats, error) {
	return r.stats, nil
}

func (r *repoStub) UpdateProfile(ctx context.Context, id uuid.UUID, patch ProfilePatch) (*User, error) {
	r.profilePatch = &patch
	return r.user, nil
}

func (r *repoStub) CreateFavoriteSpot(ctx context.Context, spot *FavoriteSpot) (*FavoriteSpot, error) {
	r.createdSpot = spot
	return spot, nil
}

func (r *repoStub) DeleteFavoriteSpot(ctx context.Context, userID, spotID uuid.UUID) (bool, error) {
	return r.spotDeleted, nil
}

func (r *repoStub) ReplaceCategoryFilters(ctx context.Context, userID uuid.UUID, categoryIDs []int64) error {
	r.replaceCalled = true
	r.replacedFilters = categoryIDs
	return r.replaceErr
}

func TestProfileUnknownUser(t *testing.T) {
	svc := NewService(&repoStub{})

	_, err := svc.Profile(context.Background(), uuid.New())
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestUpdateProfileRejectsEmptyPatch(t *testing.T) {
	repo := &repoStub{user: &User{ID: uuid.New()}}
	svc := NewService(repo)

	_, err := svc.UpdateProfile(context.Background(), uuid.New(), &UpdateProfileRequest{})
	if !errors.Is(err, ErrNoChanges) {
		t.Fatalf("err = %v, want ErrNoChanges", err)
	}
	if repo.profilePatch != nil {
		t.Fatal("repository called for an empty patch")
	}
}

func TestUpdateProfilePassesOnlyProvidedFields(t *testing.T) {
	repo := &repoStub{user: &User{ID: uuid.New()}}
	svc := NewService(repo)

	email := "new@example.com"
	if _, err := svc.UpdateProfile(context.Background(), uuid.New(), &UpdateProfileRequest{Email: &email}); err != nil {
		t.Fatalf("update profile: %v", err)
	}

	if repo.profilePatch == nil || repo.profilePatch.Email == nil || *repo.profilePatch.Email != email {
		t.Fatalf("patch = %+v, want email only", repo.profilePatch)
	}
	if repo.profilePatch.PhoneNumber != nil || repo.profilePatch.PhoneCountryCode != nil {
		t.Fatal("untouched fields leaked into the patch")
	}
}

func TestCreateFavoriteSpotDefaultsRadius(t *testing.T) {
	repo := &repoStub{}
	svc := NewService(repo)
	userID := uuid.New()

	spot, err := svc.CreateFavoriteSpot(context.Background(), userID, &CreateFavoriteSpotRequest{
		Name:      "Home",
		Latitude:  24.7136,
		Longitude: 46.6753,
	})
	if err != nil {
		t.Fatalf("create spot: %v", err)
	}

	if spot.RadiusMeters != DefaultSpotRadiusMeters {
		t.Errorf("radius = %d, want default %d", spot.RadiusMeters, DefaultSpotRadiusMeters)
	}
	if spot.UserID != userID {
		t.Errorf("user_id = %s, want caller %s", spot.UserID, userID)
	}
	if spot.ID == uuid.Nil {
		t.Error("spot ID not assigned")
	}
}

func TestCreateFavoriteSpotRejectsBadCoordinates(t *testing.T) {
	svc := NewService(&repoStub{})

	_, err := svc.CreateFavoriteSpot(context.Background(), uuid.New(), &CreateFavoriteSpotRequest{
		Name:      "Nowhere",
		Latitude:  123.0,
		Longitude: 46.0,
	})
	if !errors.Is(err, ErrInvalidLocation) {
		t.Fatalf("err = %v, want ErrInvalidLocation", err)
	}
}

func TestDeleteFavoriteSpotNotOwned(t *testing.T) {
	svc := NewService(&repoStub{spotDeleted: false})

	err := svc.DeleteFavoriteSpot(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrSpotNotFound) {
		t.Fatalf("err = %v, want ErrSpotNotFound", err)
	}
}

func TestSetCategoryFiltersReplacesSelection(t *testing.T) {
	repo := &repoStub{}
	svc := NewService(repo)

	ids, err := svc.SetCategoryFilters(context.Background(), uuid.New(), []int64{3, 7})
	if err != nil {
		t.Fatalf("set filters: %v", err)
	}

	if !repo.replaceCalled {
		t.Fatal("replace not invoked")
	}
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 7 {
		t.Fatalf("ids = %v, want [3 7]", ids)
	}
}

func TestSetCategoryFiltersEmptyClears(t *testing.T) {
	repo := &repoStub{}
	svc := NewService(repo)

	ids, err := svc.SetCategoryFilters(context.Background(), uuid.New(), nil)
	if err != nil {
		t.Fatalf("set filters: %v", err)
	}

	if !repo.replaceCalled {
		t.Fatal("replace not invoked for an empty selection")
	}
	if ids == nil || len(ids) != 0 {
		t.Fatalf("ids = %v, want empty list", ids)
	}
}

func TestSetCategoryFiltersPropagatesError(t *testing.T) {
	wantErr := errors.New("db down")
	svc := NewService(&repoStub{replaceErr: wantErr})

	_, err := svc.SetCategoryFilters(context.Background(), uuid.New(), []int64{1})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}
