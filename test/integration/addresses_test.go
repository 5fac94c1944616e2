//go:build integration

package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauandrade99/gerenciador-cli/pkg/apierror"
)

func TestAddressLifecycle(t *testing.T) {
	_, server := newBackendServer(t)
	cepServer := newCEPServer(t)
	env := newEnv(t, server.URL, cepServer.URL, sessionFile(t))

	env.mustRun("login", "-email", "maria@gerenciador.com", "-senha", "senha123")

	output := env.mustRun("addresses", "list")
	assert.Contains(t, output, "no addresses")

	output = env.mustRun("addresses", "add", "-cep", "01001-000", "-numero", "100", "-complemento", "ap 12")
	assert.Contains(t, output, "Praça da Sé")

	output = env.mustRun("addresses", "list")
	assert.Contains(t, output, "01001000")
	assert.Contains(t, output, "São Paulo")

	output = env.mustRun("addresses", "update", "-id", "1", "-cep", "01001000", "-numero", "200")
	assert.Contains(t, output, "updated address 1")

	env.mustRun("addresses", "rm", "-id", "1", "-yes")

	output = env.mustRun("addresses", "list")
	assert.Contains(t, output, "no addresses")
}

func TestNonAdminCannotTouchForeignAddresses(t *testing.T) {
	_, server := newBackendServer(t)
	cepServer := newCEPServer(t)
	env := newEnv(t, server.URL, cepServer.URL, sessionFile(t))

	env.mustRun("login", "-email", "maria@gerenciador.com", "-senha", "senha123")

	_, err := env.run("addresses", "list", "-user", "1")
	require.Error(t, err)
	assert.True(t, apierror.HasCode(err, apierror.CodeForbidden))
}

func TestAdminManagesForeignAddresses(t *testing.T) {
	_, server := newBackendServer(t)
	cepServer := newCEPServer(t)
	env := newEnv(t, server.URL, cepServer.URL, sessionFile(t))

	env.mustRun("login", "-email", "admin@gerenciador.com", "-senha", "admin123")

	output := env.mustRun("addresses", "add", "-user", "2", "-cep", "01001000", "-numero", "42")
	assert.Contains(t, output, "created address")

	output = env.mustRun("addresses", "list", "-user", "2")
	assert.Contains(t, output, "01001000")
}

func TestCEPLookup(t *testing.T) {
	_, server := newBackendServer(t)
	cepServer := newCEPServer(t)
	env := newEnv(t, server.URL, cepServer.URL, sessionFile(t))

	output := env.mustRun("cep", "01001-000")
	assert.Contains(t, output, "Praça da Sé")
	assert.Contains(t, output, "São Paulo")

	_, err := env.run("cep", "99999999")
	require.Error(t, err)
	assert.True(t, apierror.HasCode(err, apierror.CodeCEPNotFound))
}
