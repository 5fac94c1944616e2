package model

// The backend tags every write with the client surface that issued it.
// 3 is reserved for registration, 4 for the CRUD forms.
const (
	OriginRegister = 3
	OriginCRUD     = 4
)

type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required"`
}

type RegisterRequest struct {
	Nome           string `json:"nome" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Senha          string `json:"senha" validate:"required"`
	FrontendOrigin int    `json:"frontendOrigin"`
}

type UserUpdateRequest struct {
	Nome           string `json:"nome" validate:"required"`
	Role           string `json:"role" validate:"required,oneof=ROLE_USER ROLE_ADMIN"`
	FrontendOrigin int    `json:"frontendOrigin"`
}

type AddressRequest struct {
	CEP            string `json:"cep" validate:"required,len=8,numeric"`
	Numero         string `json:"numero" validate:"required"`
	Complemento    string `json:"complemento"`
	FrontendOrigin int    `json:"frontendOrigin"`
}
