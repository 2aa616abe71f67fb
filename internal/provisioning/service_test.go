package provisioning

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/storeops-app/admin-backend/pkg/config"
	"github.com/storeops-app/admin-backend/pkg/db/models"
	"github.com/storeops-app/admin-backend/pkg/enums"
	pkgerrors "github.com/storeops-app/admin-backend/pkg/errors"
	"github.com/storeops-app/admin-backend/pkg/identity"
	"github.com/storeops-app/admin-backend/pkg/logger"
	"github.com/storeops-app/admin-backend/pkg/metrics"
	"github.com/storeops-app/admin-backend/pkg/security"
)

type fakeDirectory struct {
	accountID    uuid.UUID
	created      bool
	createErr    error
	inviteErr    error
	resetErr     error
	createCalls  int
	inviteCalls  int
	resetCalls   int
	lastPassword string
}

func (f *fakeDirectory) FindOrCreateAccount(_ context.Context, _, password string) (uuid.UUID, bool, error) {
	f.createCalls++
	f.lastPassword = password
	if f.createErr != nil {
		return uuid.Nil, false, f.createErr
	}
	return f.accountID, f.created, nil
}

func (f *fakeDirectory) SendInvite(_ context.Context, _, _ string) error {
	f.inviteCalls++
	return f.inviteErr
}

func (f *fakeDirectory) SendPasswordReset(_ context.Context, _, _ string) error {
	f.resetCalls++
	return f.resetErr
}

type fakeProfileStore struct {
	upserted    []models.Profile
	resetFlags  map[uuid.UUID]bool
	upsertErr   error
	upsertCalls int
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{resetFlags: map[uuid.UUID]bool{}}
}

func (f *fakeProfileStore) Upsert(_ context.Context, profile *models.Profile) error {
	f.upsertCalls++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, *profile)
	f.resetFlags[profile.ID] = profile.MustResetPassword
	return nil
}

func (f *fakeProfileStore) SetMustResetPassword(_ context.Context, id uuid.UUID, value bool) error {
	f.resetFlags[id] = value
	return nil
}

func newTestService(t *testing.T, dir *fakeDirectory, store *fakeProfileStore) *Service {
	t.Helper()
	svc, err := NewService(
		dir,
		store,
		config.ProvisioningConfig{TempPasswordLength: 16},
		metrics.NewProvisioningMetrics(nil),
		logger.New(logger.Options{ServiceName: "test"}),
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func homeStore() *string {
	id := uuid.NewString()
	return &id
}

func TestProvisionCreateGeneratesTempPassword(t *testing.T) {
	dir := &fakeDirectory{accountID: uuid.New(), created: true}
	store := newFakeProfileStore()
	svc := newTestService(t, dir, store)

	resp, err := svc.Provision(context.Background(), ProvisioningRequest{
		Email:       "new.hire@example.com",
		FullName:    "New Hire",
		HomeStoreID: homeStore(),
	})
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}

	if resp.TempPassword == "" {
		t.Fatal("expected generated temp password in response when no invite was requested")
	}
	if len(resp.TempPassword) < security.MinTempPasswordLength {
		t.Fatalf("temp password too short: %d chars", len(resp.TempPassword))
	}
	if resp.TempPassword != dir.lastPassword {
		t.Fatal("response temp password does not match the one sent upstream")
	}
	if !strings.ContainsAny(resp.TempPassword, "0123456789") {
		t.Fatalf("temp password %q has no digit", resp.TempPassword)
	}
	if resp.InviteSent {
		t.Fatal("invite was not requested but reported as sent")
	}
	if resp.ID == nil || *resp.ID != dir.accountID {
		t.Fatalf("response id = %v, want %s", resp.ID, dir.accountID)
	}
}

func TestProvisionCreateIdempotentOnEmail(t *testing.T) {
	existing := uuid.New()
	dir := &fakeDirectory{accountID: existing, created: false}
	store := newFakeProfileStore()
	svc := newTestService(t, dir, store)

	req := ProvisioningRequest{
		Email:       "repeat@example.com",
		FullName:    "Repeat User",
		HomeStoreID: homeStore(),
	}

	first, err := svc.Provision(context.Background(), req)
	if err != nil {
		t.Fatalf("first provision: %v", err)
	}
	second, err := svc.Provision(context.Background(), req)
	if err != nil {
		t.Fatalf("second provision: %v", err)
	}

	if *first.ID != *second.ID {
		t.Fatalf("ids diverged: %s vs %s", first.ID, second.ID)
	}
	if store.upsertCalls != 2 {
		t.Fatalf("upsert calls = %d, want 2", store.upsertCalls)
	}
	// Both upserts targeted the same primary key, so there is one logical row.
	for _, p := range store.upserted {
		if p.ID != existing {
			t.Fatalf("upserted id = %s, want %s", p.ID, existing)
		}
	}
}

func TestProvisionCreateWithInviteOmitsTempPassword(t *testing.T) {
	dir := &fakeDirectory{accountID: uuid.New(), created: true}
	store := newFakeProfileStore()
	svc := newTestService(t, dir, store)

	resp, err := svc.Provision(context.Background(), ProvisioningRequest{
		Email:       "invitee@example.com",
		FullName:    "Invitee",
		Invite:      true,
		HomeStoreID: homeStore(),
	})
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}

	if !resp.InviteSent {
		t.Fatal("expected inviteSent=true")
	}
	if resp.TempPassword != "" {
		t.Fatal("temp password must be omitted when the invite email was delivered")
	}
	if store.resetFlags[dir.accountID] {
		t.Fatal("must_reset_password should be cleared after a delivered invite")
	}
}

func TestProvisionCreateInviteFailureDegradesToPartialSuccess(t *testing.T) {
	dir := &fakeDirectory{
		accountID: uuid.New(),
		created:   true,
		inviteErr: &identity.UpstreamError{Status: 502, Message: "smtp unavailable"},
	}
	store := newFakeProfileStore()
	svc := newTestService(t, dir, store)

	resp, err := svc.Provision(context.Background(), ProvisioningRequest{
		Email:       "invitee@example.com",
		FullName:    "Invitee",
		Invite:      true,
		HomeStoreID: homeStore(),
	})
	if err != nil {
		t.Fatalf("Provision should not fail when only the invite email fails: %v", err)
	}

	if resp.InviteSent {
		t.Fatal("inviteSent must be false when the email failed")
	}
	if resp.TempPassword == "" {
		t.Fatal("temp password must be returned when the invite could not be delivered")
	}
	if !store.resetFlags[dir.accountID] {
		t.Fatal("must_reset_password must stay true when no invite was delivered")
	}
}

func TestProvisionCreateUpstreamFailure(t *testing.T) {
	dir := &fakeDirectory{
		createErr: &identity.UpstreamError{Status: 500, Message: "database error"},
	}
	store := newFakeProfileStore()
	svc := newTestService(t, dir, store)

	_, err := svc.Provision(context.Background(), ProvisioningRequest{
		Email:       "x@example.com",
		FullName:    "X",
		HomeStoreID: homeStore(),
	})
	if err == nil {
		t.Fatal("expected error")
	}

	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("error code = %v, want DEPENDENCY_ERROR", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok || details["upstreamMessage"] != "database error" {
		t.Fatalf("expected upstream message in details, got %v", typed.Details())
	}
	if store.upsertCalls != 0 {
		t.Fatal("no profile row may be written when account creation fails")
	}
}

func TestProvisionCreateValidation(t *testing.T) {
	cases := []struct {
		name string
		req  ProvisioningRequest
	}{
		{
			name: "missing full name",
			req:  ProvisioningRequest{Email: "a@example.com", HomeStoreID: homeStore()},
		},
		{
			name: "non-admin without home store",
			req:  ProvisioningRequest{Email: "a@example.com", FullName: "A", Role: "manager"},
		},
		{
			name: "bad role",
			req:  ProvisioningRequest{Email: "a@example.com", FullName: "A", Role: "owner", HomeStoreID: homeStore()},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := &fakeDirectory{accountID: uuid.New(), created: true}
			store := newFakeProfileStore()
			svc := newTestService(t, dir, store)

			_, err := svc.Provision(context.Background(), tc.req)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("error = %v, want VALIDATION_ERROR", err)
			}
			if dir.createCalls != 0 || store.upsertCalls != 0 {
				t.Fatal("validation failures must not reach the platform or the database")
			}
		})
	}
}

func TestProvisionCreateAdminWithoutHomeStore(t *testing.T) {
	dir := &fakeDirectory{accountID: uuid.New(), created: true}
	store := newFakeProfileStore()
	svc := newTestService(t, dir, store)

	resp, err := svc.Provision(context.Background(), ProvisioningRequest{
		Email:    "admin@example.com",
		FullName: "Admin",
		Role:     "admin",
	})
	if err != nil {
		t.Fatalf("admins do not need a home store: %v", err)
	}
	if resp.ID == nil {
		t.Fatal("expected account id in response")
	}
	if store.upserted[0].Role != enums.UserRoleAdmin {
		t.Fatalf("role = %s, want admin", store.upserted[0].Role)
	}
}

func TestProvisionResetDoesNotLeakAccountExistence(t *testing.T) {
	// The platform accepts reset requests for unknown emails without error.
	dir := &fakeDirectory{}
	store := newFakeProfileStore()
	svc := newTestService(t, dir, store)

	resp, err := svc.Provision(context.Background(), ProvisioningRequest{
		Mode:  ModeReset,
		Email: "unknown@example.com",
	})
	if err != nil {
		t.Fatalf("Provision reset: %v", err)
	}
	if resp.Mode != ModeReset {
		t.Fatalf("mode = %s, want reset", resp.Mode)
	}
	if resp.ID != nil || resp.TempPassword != "" {
		t.Fatal("reset response must not carry an id or temp password")
	}
	if dir.resetCalls != 1 {
		t.Fatalf("reset calls = %d, want 1", dir.resetCalls)
	}
	if store.upsertCalls != 0 {
		t.Fatal("reset mode must not touch profiles")
	}
}

func TestProvisionResetUpstreamFailure(t *testing.T) {
	dir := &fakeDirectory{resetErr: errors.New("connection refused")}
	store := newFakeProfileStore()
	svc := newTestService(t, dir, store)

	_, err := svc.Provision(context.Background(), ProvisioningRequest{
		Mode:  ModeReset,
		Email: "x@example.com",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("error = %v, want DEPENDENCY_ERROR", err)
	}
}

func TestProvisionHonorsSuppliedTempPassword(t *testing.T) {
	dir := &fakeDirectory{accountID: uuid.New(), created: true}
	store := newFakeProfileStore()
	svc := newTestService(t, dir, store)

	resp, err := svc.Provision(context.Background(), ProvisioningRequest{
		Email:        "x@example.com",
		FullName:     "X",
		HomeStoreID:  homeStore(),
		TempPassword: "Chosen-Secret-99",
	})
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if dir.lastPassword != "Chosen-Secret-99" {
		t.Fatalf("upstream password = %q, want the supplied one", dir.lastPassword)
	}
	if resp.TempPassword != "Chosen-Secret-99" {
		t.Fatalf("response password = %q, want the supplied one", resp.TempPassword)
	}
}
