package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/mauandrade99/gerenciador-cli/internal/cep"
	"github.com/mauandrade99/gerenciador-cli/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSession struct {
	user       *model.User
	admin      bool
	loginErr   error
	loginCalls int
	lastToken  string
	loggedOut  bool
}

func (f *fakeSession) Login(ctx context.Context, token string) error {
	f.loginCalls++
	f.lastToken = token
	if f.loginErr != nil {
		return f.loginErr
	}
	if f.user == nil {
		f.user = &model.User{ID: 1, Nome: "Test", Email: "test@example.com", Role: model.RoleUser}
	}
	return nil
}

func (f *fakeSession) Logout() {
	f.loggedOut = true
	f.user = nil
	f.admin = false
}

func (f *fakeSession) IsAuthenticated() bool { return f.user != nil }
func (f *fakeSession) IsAdmin() bool         { return f.admin }

func (f *fakeSession) User() *model.User {
	if f.user == nil {
		return nil
	}
	u := *f.user
	return &u
}

type fakeAuthAPI struct {
	token             string
	err               error
	authenticateCalls int
	registerCalls     int
	lastRegister      model.RegisterRequest
}

func (f *fakeAuthAPI) Authenticate(ctx context.Context, creds model.LoginRequest) (*model.AuthResponse, error) {
	f.authenticateCalls++
	if f.err != nil {
		return nil, f.err
	}
	return &model.AuthResponse{Token: f.token}, nil
}

func (f *fakeAuthAPI) Register(ctx context.Context, payload model.RegisterRequest) (*model.AuthResponse, error) {
	f.registerCalls++
	f.lastRegister = payload
	if f.err != nil {
		return nil, f.err
	}
	return &model.AuthResponse{Token: f.token}, nil
}

type fakeUserAPI struct {
	page        *model.Page[model.User]
	err         error
	listCalls   int
	lastPage    int
	lastSize    int
	lastUpdate  model.UserUpdateRequest
	deletedIDs  []int64
	updateCalls int
}

func (f *fakeUserAPI) ListUsers(ctx context.Context, page int, size int) (*model.Page[model.User], error) {
	f.listCalls++
	f.lastPage = page
	f.lastSize = size
	if f.err != nil {
		return nil, f.err
	}
	if f.page != nil {
		return f.page, nil
	}
	return &model.Page[model.User]{Size: size, Number: page}, nil
}

func (f *fakeUserAPI) UpdateUser(ctx context.Context, id int64, payload model.UserUpdateRequest) (*model.User, error) {
	f.updateCalls++
	f.lastUpdate = payload
	if f.err != nil {
		return nil, f.err
	}
	return &model.User{ID: id, Nome: payload.Nome, Role: payload.Role}, nil
}

func (f *fakeUserAPI) DeleteUser(ctx context.Context, id int64) error {
	f.deletedIDs = append(f.deletedIDs, id)
	return f.err
}

type fakeAddressAPI struct {
	addresses   []model.Address
	err         error
	listCalls   int
	lastPayload model.AddressRequest
	lastUserID  int64
	deleted     []int64
}

func (f *fakeAddressAPI) ListAddresses(ctx context.Context, userID int64) ([]model.Address, error) {
	f.listCalls++
	f.lastUserID = userID
	return f.addresses, f.err
}

func (f *fakeAddressAPI) CreateAddress(ctx context.Context, userID int64, payload model.AddressRequest) (*model.Address, error) {
	f.lastUserID = userID
	f.lastPayload = payload
	if f.err != nil {
		return nil, f.err
	}
	return &model.Address{ID: 10, CEP: payload.CEP, Numero: payload.Numero}, nil
}

func (f *fakeAddressAPI) UpdateAddress(ctx context.Context, userID int64, addressID int64, payload model.AddressRequest) (*model.Address, error) {
	f.lastUserID = userID
	f.lastPayload = payload
	if f.err != nil {
		return nil, f.err
	}
	return &model.Address{ID: addressID, CEP: payload.CEP, Numero: payload.Numero}, nil
}

func (f *fakeAddressAPI) DeleteAddress(ctx context.Context, userID int64, addressID int64) error {
	f.lastUserID = userID
	f.deleted = append(f.deleted, addressID)
	return f.err
}

type fakeCEP struct {
	result *cep.Result
	err    error
	calls  int
}

func (f *fakeCEP) Lookup(ctx context.Context, code string) (*cep.Result, error) {
	f.calls++
	return f.result, f.err
}
