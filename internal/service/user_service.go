package service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator"

	"github.com/mauandrade99/gerenciador-cli/internal/model"
	"github.com/mauandrade99/gerenciador-cli/pkg/apierror"
)

type userAPI interface {
	ListUsers(ctx context.Context, page int, size int) (*model.Page[model.User], error)
	UpdateUser(ctx context.Context, id int64, payload model.UserUpdateRequest) (*model.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type UserService struct {
	api      userAPI
	session  Session
	validate *validator.Validate
	log      *slog.Logger
}

func NewUserService(api userAPI, session Session, log *slog.Logger) *UserService {
	return &UserService{
		api:      api,
		session:  session,
		validate: validator.New(),
		log:      log,
	}
}

// List is admin-only. The check runs against the freshly fetched profile
// held by the session, so no request is issued for non-admins.
func (s *UserService) List(ctx context.Context, page int, size int) (*model.Page[model.User], error) {
	if !s.session.IsAdmin() {
		return nil, apierror.New(apierror.CodeForbidden, "only administrators can list users", "", http.StatusForbidden)
	}

	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 20
	}

	return s.api.ListUsers(ctx, page, size)
}

func (s *UserService) Update(ctx context.Context, id int64, nome string, role string) (*model.User, error) {
	if !s.session.IsAdmin() {
		return nil, apierror.New(apierror.CodeForbidden, "only administrators can update users", "", http.StatusForbidden)
	}

	payload := model.UserUpdateRequest{
		Nome:           nome,
		Role:           role,
		FrontendOrigin: model.OriginCRUD,
	}
	if err := s.validate.Struct(payload); err != nil {
		return nil, validationError("nome and a valid role are required", err)
	}

	return s.api.UpdateUser(ctx, id, payload)
}

// Delete refuses to remove the logged-in user, mirroring the dashboard's
// disabled self-delete.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if !s.session.IsAdmin() {
		return apierror.New(apierror.CodeForbidden, "only administrators can delete users", "", http.StatusForbidden)
	}

	if current := s.session.User(); current != nil && current.ID == id {
		return apierror.New(apierror.CodeValidation, "cannot delete the logged-in user", "", 0)
	}

	return s.api.DeleteUser(ctx, id)
}
