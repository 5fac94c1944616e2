package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator"

	"github.com/mauandrade99/gerenciador-cli/internal/cep"
	"github.com/mauandrade99/gerenciador-cli/internal/model"
	"github.com/mauandrade99/gerenciador-cli/pkg/apierror"
)

type addressAPI interface {
	ListAddresses(ctx context.Context, userID int64) ([]model.Address, error)
	CreateAddress(ctx context.Context, userID int64, payload model.AddressRequest) (*model.Address, error)
	UpdateAddress(ctx context.Context, userID int64, addressID int64, payload model.AddressRequest) (*model.Address, error)
	DeleteAddress(ctx context.Context, userID int64, addressID int64) error
}

type cepLookup interface {
	Lookup(ctx context.Context, code string) (*cep.Result, error)
}

type AddressService struct {
	api      addressAPI
	cep      cepLookup
	session  Session
	validate *validator.Validate
	log      *slog.Logger
}

func NewAddressService(api addressAPI, lookup cepLookup, session Session, log *slog.Logger) *AddressService {
	return &AddressService{
		api:      api,
		cep:      lookup,
		session:  session,
		validate: validator.New(),
		log:      log,
	}
}

// List returns the addresses of userID. Non-admins may only read their
// own.
func (s *AddressService) List(ctx context.Context, userID int64) ([]model.Address, error) {
	if err := s.authorize(userID); err != nil {
		return nil, err
	}

	return s.api.ListAddresses(ctx, userID)
}

func (s *AddressService) Create(ctx context.Context, userID int64, cepCode string, numero string, complemento string) (*model.Address, error) {
	if err := s.authorize(userID); err != nil {
		return nil, err
	}

	payload, err := s.buildPayload(cepCode, numero, complemento)
	if err != nil {
		return nil, err
	}

	return s.api.CreateAddress(ctx, userID, *payload)
}

func (s *AddressService) Update(ctx context.Context, userID int64, addressID int64, cepCode string, numero string, complemento string) (*model.Address, error) {
	if err := s.authorize(userID); err != nil {
		return nil, err
	}

	payload, err := s.buildPayload(cepCode, numero, complemento)
	if err != nil {
		return nil, err
	}

	return s.api.UpdateAddress(ctx, userID, addressID, *payload)
}

func (s *AddressService) Delete(ctx context.Context, userID int64, addressID int64) error {
	if err := s.authorize(userID); err != nil {
		return err
	}

	return s.api.DeleteAddress(ctx, userID, addressID)
}

// Autofill resolves a postal code to street/district/city/state for form
// prefill. An unknown code surfaces as CEP_NOT_FOUND.
func (s *AddressService) Autofill(ctx context.Context, cepCode string) (*cep.Result, error) {
	result, err := s.cep.Lookup(ctx, cepCode)
	if errors.Is(err, model.ErrCEPNotFound) {
		return nil, apierror.New(apierror.CodeCEPNotFound, "cep not found", "", 0)
	}
	if err != nil {
		return nil, apierror.New(apierror.CodeValidation, "could not look up cep", err.Error(), 0)
	}

	return result, nil
}

func (s *AddressService) buildPayload(cepCode string, numero string, complemento string) (*model.AddressRequest, error) {
	normalized, err := cep.Normalize(cepCode)
	if err != nil {
		return nil, apierror.New(apierror.CodeValidation, "cep and numero are required", err.Error(), 0)
	}

	payload := model.AddressRequest{
		CEP:            normalized,
		Numero:         numero,
		Complemento:    complemento,
		FrontendOrigin: model.OriginCRUD,
	}
	if err := s.validate.Struct(payload); err != nil {
		return nil, validationError("cep and numero are required", err)
	}

	return &payload, nil
}

func (s *AddressService) authorize(userID int64) error {
	if s.session.IsAdmin() {
		return nil
	}

	current := s.session.User()
	if current == nil {
		return apierror.New(apierror.CodeUnauthorized, "not logged in", "", http.StatusUnauthorized)
	}
	if current.ID != userID {
		return apierror.New(apierror.CodeForbidden, "addresses of other users require an administrator", "", http.StatusForbidden)
	}

	return nil
}
