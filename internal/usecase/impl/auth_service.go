// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "platter/internal/delivery/context"
	"platter/internal/domain/entity"
	domainerrors "platter/internal/domain/errors"
	"platter/internal/domain/repository"
	"platter/internal/domain/service"
	"platter/internal/infra/validator"
	"platter/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const eventPublishTimeout = 3 * time.Second

// authService implements usecase.AuthUsecase for one actor variant.
type authService struct {
	variant      usecase.ActorVariant
	hasher       service.PasswordHasher
	tokenService service.TokenService
	publisher    service.EventPublisher
	validator    *validator.Validator
	logger       *slog.Logger
	now          func() time.Time
}

// AuthServiceParams holds the dependencies shared by both variants, injected by Fx.
type AuthServiceParams struct {
	fx.In

	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Publisher    service.EventPublisher `optional:"true"`
	Validator    *validator.Validator
	Logger       *slog.Logger
}

// UserAuthParams selects the users store.
type UserAuthParams struct {
	fx.In

	AuthServiceParams
	Repo repository.ActorRepository `name:"users"`
}

// PartnerAuthParams selects the food partners store.
type PartnerAuthParams struct {
	fx.In

	AuthServiceParams
	Repo repository.ActorRepository `name:"partners"`
}

// NewUserAuthService builds the workflow for end users.
func NewUserAuthService(params UserAuthParams) usecase.AuthUsecase {
	return NewAuthService(usecase.ActorVariant{
		Kind:         entity.ActorKindUser,
		Label:        "User",
		DisplayField: "fullName",
		Repo:         params.Repo,
	}, params.AuthServiceParams)
}

// NewPartnerAuthService builds the workflow for food partners.
func NewPartnerAuthService(params PartnerAuthParams) usecase.AuthUsecase {
	return NewAuthService(usecase.ActorVariant{
		Kind:         entity.ActorKindPartner,
		Label:        "Food partner",
		DisplayField: "name",
		Repo:         params.Repo,
	}, params.AuthServiceParams)
}

// NewAuthService is the constructor for authService.
func NewAuthService(variant usecase.ActorVariant, params AuthServiceParams) usecase.AuthUsecase {
	v := params.Validator
	if v == nil {
		v = validator.New()
	}

	return &authService{
		variant:      variant,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		publisher:    params.Publisher,
		validator:    v,
		logger:       params.Logger,
		now:          time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger).With(slog.String("actor_kind", srv.variant.Kind.String()))
}

func (srv *authService) Kind() entity.ActorKind {
	return srv.variant.Kind
}

// Register creates the account and signs the caller in.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error) {
	in := usecase.RegisterInput{
		DisplayName: strings.TrimSpace(input.DisplayName),
		Email:       normalizeEmail(input.Email),
		Password:    input.Password,
	}
	if err := srv.validator.Validate(&in); err != nil {
		return nil, srv.validationError(err)
	}

	_, err := srv.variant.Repo.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		srv.log(ctx).Info("Registration rejected, email already registered")

		return nil, errors.WithStack(srv.alreadyRegistered())
	case !errors.Is(err, repository.ErrActorNotFound):
		return nil, errors.Wrap(err, "failed to look up existing account")
	}

	hash, err := srv.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, service.ErrPasswordTooLong) {
			return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithMessage("Password is too long"))
		}

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	actor := &entity.Actor{
		Kind:         srv.variant.Kind,
		DisplayName:  in.DisplayName,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := srv.variant.Repo.Create(ctx, actor); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			srv.log(ctx).Info("Registration lost a race on the email unique index")

			return nil, errors.WithStack(srv.alreadyRegistered())
		}

		return nil, errors.Wrap(err, "failed to create account")
	}

	out, err := srv.issue(actor)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Account registered", slog.String("actor_id", actor.ID.String()))
	srv.publish(ctx, service.EventActorRegistered, actor)

	return out, nil
}

// Login verifies the credentials and issues a fresh token.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	in := usecase.LoginInput{
		Email:    normalizeEmail(input.Email),
		Password: input.Password,
	}
	if err := srv.validator.Validate(&in); err != nil {
		return nil, srv.validationError(err)
	}

	actor, err := srv.variant.Repo.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrActorNotFound) {
			return nil, errors.WithStack(domainerrors.ErrNotRegistered.WithMessage(srv.variant.Label + " not registered"))
		}

		return nil, errors.Wrap(err, "failed to look up account")
	}

	if !srv.hasher.Check(in.Password, actor.PasswordHash) {
		srv.log(ctx).Info("Login rejected, password mismatch", slog.String("actor_id", actor.ID.String()))

		return nil, errors.WithStack(domainerrors.ErrInvalidCredentials)
	}

	out, err := srv.issue(actor)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Login succeeded", slog.String("actor_id", actor.ID.String()))
	srv.publish(ctx, service.EventActorLoggedIn, actor)

	return out, nil
}

// Authenticate maps every token or lookup failure to ErrUnauthorized, except store outages.
func (srv *authService) Authenticate(ctx context.Context, token string) (*entity.Actor, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.WithStack(domainerrors.ErrUnauthorized)
	}

	id, err := srv.tokenService.Verify(token, srv.variant.Kind)
	if err != nil {
		srv.log(ctx).Debug("Token rejected", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrUnauthorized, "invalid session token")
	}

	actor, err := srv.variant.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrActorNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUnauthorized, "account no longer exists")
		}

		return nil, errors.Wrap(err, "failed to load account")
	}

	return sanitize(actor), nil
}

func (srv *authService) issue(actor *entity.Actor) (*usecase.AuthOutput, error) {
	token, expiresAt, err := srv.tokenService.Issue(actor.ID, srv.variant.Kind)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrTokenIssueFailed, err.Error())
	}

	return &usecase.AuthOutput{
		Actor:     sanitize(actor),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// publish never fails the request; a broken event pipeline only costs a log line.
func (srv *authService) publish(ctx context.Context, eventType string, actor *entity.Actor) {
	if srv.publisher == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	defer cancel()

	event := &service.AuthEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		Type:       eventType,
		ActorID:    actor.ID.String(),
		ActorKind:  srv.variant.Kind.String(),
		Email:      actor.Email,
		OccurredAt: srv.now().UTC(),
	}
	if err := srv.publisher.PublishAuthEvent(pubCtx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish auth event", slog.String("type", eventType), slog.Any("error", err))
	}
}

func (srv *authService) alreadyRegistered() *domainerrors.BaseError {
	return domainerrors.ErrAlreadyRegistered.WithMessage(srv.variant.Label + " already registered")
}

func (srv *authService) validationError(err error) error {
	fields := validator.FailedFields(err)
	if len(fields) == 0 {
		return errors.Wrap(domainerrors.ErrValidationFailed, err.Error())
	}

	for i, field := range fields {
		if field == "displayName" && srv.variant.DisplayField != "" {
			fields[i] = srv.variant.DisplayField
		}
	}

	return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("missing: " + strings.Join(fields, ", ")))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// sanitize returns a copy without the password hash.
func sanitize(actor *entity.Actor) *entity.Actor {
	cp := *actor
	cp.PasswordHash = ""

	return &cp
}
