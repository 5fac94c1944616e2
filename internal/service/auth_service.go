package service

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator"

	"github.com/mauandrade99/gerenciador-cli/internal/model"
	"github.com/mauandrade99/gerenciador-cli/pkg/apierror"
)

type authAPI interface {
	Authenticate(ctx context.Context, creds model.LoginRequest) (*model.AuthResponse, error)
	Register(ctx context.Context, payload model.RegisterRequest) (*model.AuthResponse, error)
}

// Session is the slice of the session manager the services depend on.
type Session interface {
	Login(ctx context.Context, token string) error
	Logout()
	IsAuthenticated() bool
	IsAdmin() bool
	User() *model.User
}

type AuthService struct {
	api      authAPI
	session  Session
	validate *validator.Validate
	log      *slog.Logger
}

func NewAuthService(api authAPI, session Session, log *slog.Logger) *AuthService {
	return &AuthService{
		api:      api,
		session:  session,
		validate: validator.New(),
		log:      log,
	}
}

// Login authenticates against the backend and hands the returned token to
// the session manager. Field validation happens before any request goes
// out.
func (s *AuthService) Login(ctx context.Context, email string, senha string) (*model.User, error) {
	creds := model.LoginRequest{Email: email, Senha: senha}
	if err := s.validate.Struct(creds); err != nil {
		return nil, validationError("email and senha are required", err)
	}

	auth, err := s.api.Authenticate(ctx, creds)
	if err != nil {
		return nil, err
	}

	return s.establish(ctx, auth.Token)
}

// Register creates the account and immediately logs it in with the
// returned token.
func (s *AuthService) Register(ctx context.Context, nome string, email string, senha string, confirmacao string) (*model.User, error) {
	payload := model.RegisterRequest{
		Nome:           nome,
		Email:          email,
		Senha:          senha,
		FrontendOrigin: model.OriginRegister,
	}
	if err := s.validate.Struct(payload); err != nil {
		return nil, validationError("nome, email and senha are required", err)
	}
	if senha != confirmacao {
		return nil, apierror.New(apierror.CodeValidation, "passwords do not match", "", 0)
	}

	auth, err := s.api.Register(ctx, payload)
	if err != nil {
		return nil, err
	}

	return s.establish(ctx, auth.Token)
}

func (s *AuthService) Logout() {
	s.session.Logout()
}

// establish collapses session-internal failures (decode, expiry, profile
// fetch, storage) into one generic login failure; the detail is logged by
// the session manager, not surfaced.
func (s *AuthService) establish(ctx context.Context, token string) (*model.User, error) {
	if err := s.session.Login(ctx, token); err != nil {
		return nil, apierror.New(apierror.CodeUnauthorized, "could not establish session", "", 0)
	}

	user := s.session.User()
	if user == nil {
		return nil, apierror.New(apierror.CodeUnauthorized, "could not establish session", "", 0)
	}

	return user, nil
}

func validationError(message string, err error) *apierror.APIError {
	details := ""
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		details = fieldErrs[0].Field() + " is invalid"
	}

	return apierror.New(apierror.CodeValidation, message, details, 0)
}
