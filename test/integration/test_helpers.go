//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/mauandrade99/gerenciador-cli/internal/api"
	"github.com/mauandrade99/gerenciador-cli/internal/cep"
	"github.com/mauandrade99/gerenciador-cli/internal/cli"
	"github.com/mauandrade99/gerenciador-cli/internal/model"
	"github.com/mauandrade99/gerenciador-cli/internal/service"
	"github.com/mauandrade99/gerenciador-cli/internal/session"
	"github.com/mauandrade99/gerenciador-cli/internal/store"
)

const backendSecret = "integration-secret"

type backendUser struct {
	model.User
	Senha string
}

// backend is an in-memory stand-in for the gerenciador API. It issues
// real HS256 tokens and enforces the Authorization header the way the
// production server does, so the full client stack is exercised.
type backend struct {
	mu            sync.Mutex
	nextUserID    int64
	nextAddressID int64
	users         map[int64]*backendUser
	addresses     map[int64][]model.Address
}

func newBackend() *backend {
	b := &backend{
		users:     make(map[int64]*backendUser),
		addresses: make(map[int64][]model.Address),
	}
	b.addUser("Admin Master", "admin@gerenciador.com", "admin123", model.RoleAdmin)
	b.addUser("Maria Silva", "maria@gerenciador.com", "senha123", model.RoleUser)
	return b
}

func (b *backend) addUser(nome string, email string, senha string, role string) *backendUser {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextUserID++
	u := &backendUser{
		User:  model.User{ID: b.nextUserID, Nome: nome, Email: email, Role: role},
		Senha: senha,
	}
	b.users[u.ID] = u
	return u
}

func (b *backend) findByEmail(email string) *backendUser {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, u := range b.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (b *backend) signToken(t *testing.T, u *backendUser, ttl time.Duration) string {
	t.Helper()

	now := time.Now()
	claims := jwt.MapClaims{
		"userId":      u.ID,
		"sub":         u.Email,
		"authorities": []string{u.Role},
		"iat":         now.Unix(),
		"exp":         now.Add(ttl).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(backendSecret))
	require.NoError(t, err)
	return raw
}

func (b *backend) router(t *testing.T) http.Handler {
	r := chi.NewRouter()

	r.Post("/api/auth/authenticate", func(w http.ResponseWriter, req *http.Request) {
		var creds model.LoginRequest
		if err := json.NewDecoder(req.Body).Decode(&creds); err != nil {
			writeError(w, http.StatusBadRequest, "payload inválido")
			return
		}

		u := b.findByEmail(creds.Email)
		if u == nil || u.Senha != creds.Senha {
			writeError(w, http.StatusUnauthorized, "Credenciais inválidas")
			return
		}

		writeJSON(w, http.StatusOK, model.AuthResponse{Token: b.signToken(t, u, time.Hour)})
	})

	r.Post("/api/auth/register", func(w http.ResponseWriter, req *http.Request) {
		var payload model.RegisterRequest
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "payload inválido")
			return
		}
		if b.findByEmail(payload.Email) != nil {
			writeError(w, http.StatusBadRequest, "E-mail já cadastrado")
			return
		}

		u := b.addUser(payload.Nome, payload.Email, payload.Senha, model.RoleUser)
		writeJSON(w, http.StatusOK, model.AuthResponse{Token: b.signToken(t, u, time.Hour)})
	})

	r.Group(func(r chi.Router) {
		r.Use(b.requireToken)

		r.Get("/api/users", func(w http.ResponseWriter, req *http.Request) {
			page, _ := strconv.Atoi(req.URL.Query().Get("page"))
			size, _ := strconv.Atoi(req.URL.Query().Get("size"))
			if size <= 0 {
				size = 20
			}

			b.mu.Lock()
			var all []model.User
			for id := int64(1); id <= b.nextUserID; id++ {
				if u, ok := b.users[id]; ok {
					all = append(all, u.User)
				}
			}
			b.mu.Unlock()

			start := page * size
			if start > len(all) {
				start = len(all)
			}
			end := start + size
			if end > len(all) {
				end = len(all)
			}

			totalPages := (len(all) + size - 1) / size
			writeJSON(w, http.StatusOK, model.Page[model.User]{
				Content:       all[start:end],
				TotalPages:    totalPages,
				TotalElements: int64(len(all)),
				Number:        page,
				Size:          size,
			})
		})

		r.Get("/api/users/{id}", func(w http.ResponseWriter, req *http.Request) {
			u := b.userFromPath(req)
			if u == nil {
				writeError(w, http.StatusNotFound, "Usuário não encontrado")
				return
			}
			writeJSON(w, http.StatusOK, u.User)
		})

		r.Put("/api/users/{id}", func(w http.ResponseWriter, req *http.Request) {
			u := b.userFromPath(req)
			if u == nil {
				writeError(w, http.StatusNotFound, "Usuário não encontrado")
				return
			}

			var payload model.UserUpdateRequest
			if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
				writeError(w, http.StatusBadRequest, "payload inválido")
				return
			}

			b.mu.Lock()
			u.Nome = payload.Nome
			u.Role = payload.Role
			updated := u.User
			b.mu.Unlock()
			writeJSON(w, http.StatusOK, updated)
		})

		r.Delete("/api/users/{id}", func(w http.ResponseWriter, req *http.Request) {
			u := b.userFromPath(req)
			if u == nil {
				writeError(w, http.StatusNotFound, "Usuário não encontrado")
				return
			}

			b.mu.Lock()
			delete(b.users, u.ID)
			delete(b.addresses, u.ID)
			b.mu.Unlock()
			w.WriteHeader(http.StatusNoContent)
		})

		r.Get("/api/users/{id}/addresses", func(w http.ResponseWriter, req *http.Request) {
			u := b.userFromPath(req)
			if u == nil {
				writeError(w, http.StatusNotFound, "Usuário não encontrado")
				return
			}

			b.mu.Lock()
			list := append([]model.Address{}, b.addresses[u.ID]...)
			b.mu.Unlock()
			writeJSON(w, http.StatusOK, list)
		})

		r.Post("/api/users/{id}/addresses", func(w http.ResponseWriter, req *http.Request) {
			u := b.userFromPath(req)
			if u == nil {
				writeError(w, http.StatusNotFound, "Usuário não encontrado")
				return
			}

			var payload model.AddressRequest
			if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
				writeError(w, http.StatusBadRequest, "payload inválido")
				return
			}

			b.mu.Lock()
			b.nextAddressID++
			address := model.Address{
				ID:          b.nextAddressID,
				Logradouro:  "Praça da Sé",
				Numero:      payload.Numero,
				Complemento: payload.Complemento,
				Bairro:      "Sé",
				Cidade:      "São Paulo",
				Estado:      "SP",
				CEP:         payload.CEP,
			}
			b.addresses[u.ID] = append(b.addresses[u.ID], address)
			b.mu.Unlock()
			writeJSON(w, http.StatusCreated, address)
		})

		r.Put("/api/users/{id}/addresses/{addressID}", func(w http.ResponseWriter, req *http.Request) {
			u := b.userFromPath(req)
			if u == nil {
				writeError(w, http.StatusNotFound, "Usuário não encontrado")
				return
			}
			addressID, _ := strconv.ParseInt(chi.URLParam(req, "addressID"), 10, 64)

			var payload model.AddressRequest
			if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
				writeError(w, http.StatusBadRequest, "payload inválido")
				return
			}

			b.mu.Lock()
			defer b.mu.Unlock()
			for i, a := range b.addresses[u.ID] {
				if a.ID == addressID {
					a.Numero = payload.Numero
					a.Complemento = payload.Complemento
					a.CEP = payload.CEP
					b.addresses[u.ID][i] = a
					writeJSON(w, http.StatusOK, a)
					return
				}
			}
			writeError(w, http.StatusNotFound, "Endereço não encontrado")
		})

		r.Delete("/api/users/{id}/addresses/{addressID}", func(w http.ResponseWriter, req *http.Request) {
			u := b.userFromPath(req)
			if u == nil {
				writeError(w, http.StatusNotFound, "Usuário não encontrado")
				return
			}
			addressID, _ := strconv.ParseInt(chi.URLParam(req, "addressID"), 10, 64)

			b.mu.Lock()
			defer b.mu.Unlock()
			for i, a := range b.addresses[u.ID] {
				if a.ID == addressID {
					b.addresses[u.ID] = append(b.addresses[u.ID][:i], b.addresses[u.ID][i+1:]...)
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}
			writeError(w, http.StatusNotFound, "Endereço não encontrado")
		})
	})

	return r
}

func (b *backend) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		raw := strings.TrimPrefix(req.Header.Get("Authorization"), "Bearer ")
		if raw == "" || raw == req.Header.Get("Authorization") {
			writeError(w, http.StatusUnauthorized, "Credenciais inválidas")
			return
		}

		parsed, err := jwt.Parse(raw, func(tok *jwt.Token) (any, error) {
			return []byte(backendSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !parsed.Valid {
			writeError(w, http.StatusUnauthorized, "Credenciais inválidas")
			return
		}

		next.ServeHTTP(w, req)
	})
}

func (b *backend) userFromPath(req *http.Request) *backendUser {
	id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
	if err != nil {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.users[id]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func newCEPServer(t *testing.T) *httptest.Server {
	t.Helper()

	r := chi.NewRouter()
	r.Get("/ws/{cep}/json/", func(w http.ResponseWriter, req *http.Request) {
		if chi.URLParam(req, "cep") != "01001000" {
			writeJSON(w, http.StatusOK, map[string]bool{"erro": true})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"cep":        "01001-000",
			"logradouro": "Praça da Sé",
			"bairro":     "Sé",
			"localidade": "São Paulo",
			"uf":         "SP",
		})
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

// testEnv is one process worth of wiring: client, session manager,
// services and commands sharing a token file. Building a second env on
// the same backend and token file simulates a restart.
type testEnv struct {
	t       *testing.T
	session *session.Manager
	cli     *cli.CLI
	out     *bytes.Buffer
}

func newEnv(t *testing.T, apiURL string, cepURL string, tokenFile string) *testEnv {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokenStore := store.New(tokenFile)

	var sess *session.Manager
	client := api.New(apiURL, 5*time.Second, api.TokenFunc(func() string {
		if sess == nil {
			return ""
		}
		return sess.Token()
	}), log)
	sess = session.NewManager(client, tokenStore, log)

	cepClient := cep.New(cepURL, 5*time.Second, 600)

	authService := service.NewAuthService(client, sess, log)
	userService := service.NewUserService(client, sess, log)
	addressService := service.NewAddressService(client, cepClient, sess, log)

	out := &bytes.Buffer{}
	commands := cli.New(sess, authService, userService, addressService, 20, strings.NewReader(""), out)

	sess.Initialize(context.Background())

	return &testEnv{t: t, session: sess, cli: commands, out: out}
}

func newBackendServer(t *testing.T) (*backend, *httptest.Server) {
	t.Helper()

	b := newBackend()
	server := httptest.NewServer(b.router(t))
	t.Cleanup(server.Close)
	return b, server
}

// run executes one command and returns everything it printed.
func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()

	e.out.Reset()
	err := e.cli.Run(context.Background(), args)
	return e.out.String(), err
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()

	output, err := e.run(args...)
	require.NoError(e.t, err, "command %v failed: %s", args, output)
	return output
}

func sessionFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "session.json")
}
