package grants

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/storeops-app/admin-backend/pkg/db/models"
	pkgerrors "github.com/storeops-app/admin-backend/pkg/errors"
	"github.com/storeops-app/admin-backend/pkg/logger"
)

type fakeGrantRepo struct {
	grants     []models.AccessGrant
	applyCalls int
	lastAdds   []models.AccessGrant
	lastRms    []uuid.UUID
}

func (f *fakeGrantRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.AccessGrant, error) {
	var out []models.AccessGrant
	for _, g := range f.grants {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGrantRepo) Apply(_ context.Context, userID uuid.UUID, additions []models.AccessGrant, removals []uuid.UUID) error {
	f.applyCalls++
	f.lastAdds = additions
	f.lastRms = removals

	kept := f.grants[:0]
	for _, g := range f.grants {
		removed := false
		for _, storeID := range removals {
			if g.UserID == userID && g.StoreID == storeID {
				removed = true
				break
			}
		}
		if !removed {
			kept = append(kept, g)
		}
	}
	f.grants = append(kept, additions...)
	return nil
}

type fakeStoreChecker struct {
	known map[uuid.UUID]bool
}

func (f *fakeStoreChecker) FindByID(_ context.Context, id uuid.UUID) (*models.Store, error) {
	if !f.known[id] {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	return &models.Store{ID: id}, nil
}

type fakeProfileChecker struct {
	known map[uuid.UUID]bool
}

func (f *fakeProfileChecker) FindByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	if !f.known[id] {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
	}
	return &models.Profile{ID: id}, nil
}

func newTestService(t *testing.T, repo *fakeGrantRepo, storeIDs []uuid.UUID, userIDs []uuid.UUID) *Service {
	t.Helper()

	stores := &fakeStoreChecker{known: map[uuid.UUID]bool{}}
	for _, id := range storeIDs {
		stores.known[id] = true
	}
	users := &fakeProfileChecker{known: map[uuid.UUID]bool{}}
	for _, id := range userIDs {
		users.known[id] = true
	}

	svc, err := NewService(repo, stores, users, logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestSyncComputesSetDifference(t *testing.T) {
	userID := uuid.New()
	admin := uuid.New()
	storeA, storeB, storeC := uuid.New(), uuid.New(), uuid.New()

	repo := &fakeGrantRepo{grants: []models.AccessGrant{
		{UserID: userID, StoreID: storeA, AssignedBy: admin},
		{UserID: userID, StoreID: storeB, AssignedBy: admin},
	}}
	svc := newTestService(t, repo, []uuid.UUID{storeA, storeB, storeC}, []uuid.UUID{userID})

	result, err := svc.Sync(context.Background(), userID, admin, SyncGrantsRequest{
		StoreIDs: []string{storeB.String(), storeC.String()},
	})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if result.Added != 1 || result.Removed != 1 {
		t.Fatalf("added=%d removed=%d, want 1 and 1", result.Added, result.Removed)
	}
	if len(repo.lastAdds) != 1 || repo.lastAdds[0].StoreID != storeC {
		t.Fatalf("additions = %v, want only store C", repo.lastAdds)
	}
	if repo.lastAdds[0].AssignedBy != admin {
		t.Fatal("additions must be stamped with the acting admin")
	}
	if len(repo.lastRms) != 1 || repo.lastRms[0] != storeA {
		t.Fatalf("removals = %v, want only store A", repo.lastRms)
	}

	// B survived untouched.
	held, _ := repo.ListByUser(context.Background(), userID)
	found := map[uuid.UUID]bool{}
	for _, g := range held {
		found[g.StoreID] = true
	}
	if !found[storeB] || !found[storeC] || found[storeA] {
		t.Fatalf("final set = %v, want {B, C}", found)
	}
}

func TestSyncIdenticalTargetIsNoOp(t *testing.T) {
	userID := uuid.New()
	admin := uuid.New()
	storeA, storeB := uuid.New(), uuid.New()

	repo := &fakeGrantRepo{grants: []models.AccessGrant{
		{UserID: userID, StoreID: storeA, AssignedBy: admin},
		{UserID: userID, StoreID: storeB, AssignedBy: admin},
	}}
	svc := newTestService(t, repo, []uuid.UUID{storeA, storeB}, []uuid.UUID{userID})

	result, err := svc.Sync(context.Background(), userID, admin, SyncGrantsRequest{
		StoreIDs: []string{storeA.String(), storeB.String()},
	})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if repo.applyCalls != 0 {
		t.Fatalf("apply calls = %d, want 0 for an identical target set", repo.applyCalls)
	}
	if result.Added != 0 || result.Removed != 0 {
		t.Fatalf("added=%d removed=%d, want zeros", result.Added, result.Removed)
	}
}

func TestSyncDeduplicatesTarget(t *testing.T) {
	userID := uuid.New()
	admin := uuid.New()
	storeA := uuid.New()

	repo := &fakeGrantRepo{}
	svc := newTestService(t, repo, []uuid.UUID{storeA}, []uuid.UUID{userID})

	result, err := svc.Sync(context.Background(), userID, admin, SyncGrantsRequest{
		StoreIDs: []string{storeA.String(), storeA.String()},
	})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if result.Added != 1 {
		t.Fatalf("added = %d, want 1 despite the duplicate", result.Added)
	}
}

func TestSyncRejectsUnknownStores(t *testing.T) {
	userID := uuid.New()
	repo := &fakeGrantRepo{}
	svc := newTestService(t, repo, nil, []uuid.UUID{userID})

	_, err := svc.Sync(context.Background(), userID, uuid.New(), SyncGrantsRequest{
		StoreIDs: []string{uuid.NewString()},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("error = %v, want VALIDATION_ERROR", err)
	}
	if repo.applyCalls != 0 {
		t.Fatal("no writes may happen when the target set fails validation")
	}
}

func TestSyncUnknownUser(t *testing.T) {
	repo := &fakeGrantRepo{}
	svc := newTestService(t, repo, nil, nil)

	_, err := svc.Sync(context.Background(), uuid.New(), uuid.New(), SyncGrantsRequest{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("error = %v, want NOT_FOUND", err)
	}
}

func TestSyncEmptyTargetRemovesEverything(t *testing.T) {
	userID := uuid.New()
	admin := uuid.New()
	storeA := uuid.New()

	repo := &fakeGrantRepo{grants: []models.AccessGrant{
		{UserID: userID, StoreID: storeA, AssignedBy: admin},
	}}
	svc := newTestService(t, repo, []uuid.UUID{storeA}, []uuid.UUID{userID})

	result, err := svc.Sync(context.Background(), userID, admin, SyncGrantsRequest{StoreIDs: []string{}})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if result.Removed != 1 || result.Added != 0 {
		t.Fatalf("added=%d removed=%d, want 0 and 1", result.Added, result.Removed)
	}
	held, _ := repo.ListByUser(context.Background(), userID)
	if len(held) != 0 {
		t.Fatalf("grants remaining = %d, want 0", len(held))
	}
}
