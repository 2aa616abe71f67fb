package provisioning

import (
	"context"
	stdErrors "errors"

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

// ProfileStore is the slice of the profile repository provisioning writes
// through. Provisioning never reads profiles and never touches grants.
type ProfileStore interface {
	Upsert(ctx context.Context, profile *models.Profile) error
	SetMustResetPassword(ctx context.Context, id uuid.UUID, value bool) error
}

// Service executes admin provisioning requests: account creation on the
// identity platform plus the local profile upsert, or password reset emails.
type Service struct {
	directory identity.Directory
	profiles  ProfileStore
	cfg       config.ProvisioningConfig
	metrics   *metrics.ProvisioningMetrics
	logg      *logger.Logger
}

func NewService(
	directory identity.Directory,
	profiles ProfileStore,
	cfg config.ProvisioningConfig,
	m *metrics.ProvisioningMetrics,
	logg *logger.Logger,
) (*Service, error) {
	if directory == nil {
		return nil, stdErrors.New("provisioning: identity directory is required")
	}
	if profiles == nil {
		return nil, stdErrors.New("provisioning: profile store is required")
	}
	if logg == nil {
		return nil, stdErrors.New("provisioning: logger is required")
	}
	return &Service{
		directory: directory,
		profiles:  profiles,
		cfg:       cfg,
		metrics:   m,
		logg:      logg,
	}, nil
}

// Provision routes the request by mode and records the outcome metrics.
func (s *Service) Provision(ctx context.Context, req ProvisioningRequest) (*ProvisioningResponse, error) {
	mode := req.NormalizedMode()

	var resp *ProvisioningResponse
	var err error
	switch mode {
	case ModeReset:
		resp, err = s.reset(ctx, req)
	default:
		resp, err = s.create(ctx, req)
	}

	if err != nil {
		code := pkgerrors.CodeInternal
		if typed := pkgerrors.As(err); typed != nil {
			code = typed.Code()
		}
		s.metrics.IncFailure(mode, string(code))
		return nil, err
	}

	s.metrics.IncSuccess(mode)
	return resp, nil
}

// reset triggers the platform's password reset email. The platform does not
// reveal whether the address is registered, so success here never leaks
// account existence.
func (s *Service) reset(ctx context.Context, req ProvisioningRequest) (*ProvisioningResponse, error) {
	if err := s.directory.SendPasswordReset(ctx, req.Email, s.redirectFor(req)); err != nil {
		return nil, upstreamError(err, "sending password reset email")
	}

	s.logg.Info(ctx, "password reset email requested")
	return &ProvisioningResponse{Mode: ModeReset}, nil
}

func (s *Service) create(ctx context.Context, req ProvisioningRequest) (*ProvisioningResponse, error) {
	if req.FullName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full_name is required").
			WithDetails(map[string]string{"full_name": "this field is required"})
	}

	role := enums.UserRoleEmployee
	if req.Role != "" {
		parsed, err := enums.ParseUserRole(req.Role)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role")
		}
		role = parsed
	}

	status := enums.UserStatusActive
	if req.Status != "" {
		parsed, err := enums.ParseUserStatus(req.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		status = parsed
	}

	var homeStoreID *uuid.UUID
	if req.HomeStoreID != nil && *req.HomeStoreID != "" {
		parsed, err := uuid.Parse(*req.HomeStoreID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid home store id")
		}
		homeStoreID = &parsed
	}

	if role.RequiresHomeStore() && homeStoreID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "non-admin roles require a home store")
	}

	tempPassword := req.TempPassword
	if tempPassword == "" {
		generated, err := security.GenerateTempPassword(s.cfg.TempPasswordLength)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating temp password")
		}
		tempPassword = generated
	}

	// Create-by-email is idempotent: an email conflict falls back to
	// recovering the existing subject id, so a retried request converges on
	// the same account instead of failing.
	accountID, created, err := s.directory.FindOrCreateAccount(ctx, req.Email, tempPassword)
	if err != nil {
		return nil, upstreamError(err, "creating identity account")
	}
	if !created {
		s.logg.Info(ctx, "identity account already existed, reusing subject id")
	}

	mustReset := true
	if req.MustResetPassword != nil {
		mustReset = *req.MustResetPassword
	}

	profile := models.Profile{
		ID:                accountID,
		Email:             req.Email,
		FullName:          req.FullName,
		Role:              role,
		Status:            status,
		HomeStoreID:       homeStoreID,
		MustResetPassword: mustReset,
	}
	if err := s.profiles.Upsert(ctx, &profile); err != nil {
		return nil, err
	}

	s.logg.Info(ctx, "profile provisioned")

	resp := &ProvisioningResponse{ID: &accountID, Mode: ModeCreate}

	if req.Invite {
		if err := s.directory.SendInvite(ctx, req.Email, s.redirectFor(req)); err != nil {
			// Partial success: the account and profile exist, only the
			// email failed. Hand the temp password back instead of erroring.
			s.metrics.IncInvite("failed")
			s.logg.Warn(ctx, "invite email failed, returning temp password instead")
			resp.TempPassword = tempPassword
			return resp, nil
		}
		s.metrics.IncInvite("sent")
		resp.InviteSent = true
		if err := s.profiles.SetMustResetPassword(ctx, accountID, false); err != nil {
			s.logg.Warn(ctx, "failed to clear reset flag after invite")
		}
		return resp, nil
	}

	resp.TempPassword = tempPassword
	return resp, nil
}

func (s *Service) redirectFor(req ProvisioningRequest) string {
	if req.RedirectTo != "" {
		return req.RedirectTo
	}
	return s.cfg.DefaultRedirectURL
}

// upstreamError converts identity client failures into dependency errors
// carrying the platform's own message so the console can display it.
func upstreamError(err error, message string) error {
	var upstream *identity.UpstreamError
	if stdErrors.As(err, &upstream) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message).
			WithDetails(map[string]any{
				"upstreamStatus":  upstream.Status,
				"upstreamMessage": upstream.Message,
			})
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}
