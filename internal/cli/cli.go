// Package cli implements the terminal commands. Each command is thin: it
// parses flags, calls a service, and renders the result; every outcome a
// user sees comes back from the services as a value or a typed error.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mauandrade99/gerenciador-cli/internal/service"
	"github.com/mauandrade99/gerenciador-cli/internal/session"
)

type CLI struct {
	session   *session.Manager
	auth      *service.AuthService
	users     *service.UserService
	addresses *service.AddressService
	pageSize  int
	in        io.Reader
	out       io.Writer
}

func New(sess *session.Manager, auth *service.AuthService, users *service.UserService, addresses *service.AddressService, pageSize int, in io.Reader, out io.Writer) *CLI {
	return &CLI{
		session:   sess,
		auth:      auth,
		users:     users,
		addresses: addresses,
		pageSize:  pageSize,
		in:        in,
		out:       out,
	}
}

// Run dispatches a command. The session manager has already finished
// Initialize by the time this runs, so the auth gate below never observes
// the booting state.
func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		c.printUsage()
		return fmt.Errorf("missing command")
	}

	name := args[0]
	rest := args[1:]

	switch name {
	case "help", "-h", "--help":
		c.printUsage()
		return nil
	case "login":
		return c.runLogin(ctx, rest)
	case "register":
		return c.runRegister(ctx, rest)
	case "logout":
		return c.runLogout(ctx, rest)
	case "cep":
		return c.runCEP(ctx, rest)
	case "whoami":
		if err := c.requireAuth(); err != nil {
			return err
		}
		return c.runWhoami(ctx, rest)
	case "users":
		if err := c.requireAuth(); err != nil {
			return err
		}
		return c.runUsers(ctx, rest)
	case "addresses":
		if err := c.requireAuth(); err != nil {
			return err
		}
		return c.runAddresses(ctx, rest)
	default:
		c.printUsage()
		return fmt.Errorf("unknown command %q", name)
	}
}

func (c *CLI) requireAuth() error {
	if !c.session.IsAuthenticated() {
		return fmt.Errorf("not logged in, run 'gerenciador login' first")
	}
	return nil
}

// confirm asks a yes/no question on the terminal; anything but y/yes is a
// no.
func (c *CLI) confirm(prompt string) bool {
	fmt.Fprintf(c.out, "%s [y/N]: ", prompt)
	reader := bufio.NewReader(c.in)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func (c *CLI) printUsage() {
	fmt.Fprint(c.out, `gerenciador - terminal client for the gerenciador backend

Usage:
  gerenciador login -email <email> -senha <senha>
  gerenciador register -nome <nome> -email <email> -senha <senha> -confirma <senha>
  gerenciador logout
  gerenciador whoami
  gerenciador users list [-page N] [-size N]
  gerenciador users update -id N -nome <nome> -role ROLE_USER|ROLE_ADMIN
  gerenciador users rm -id N [-yes]
  gerenciador addresses list [-user N]
  gerenciador addresses add [-user N] -cep <cep> -numero <numero> [-complemento <texto>]
  gerenciador addresses update [-user N] -id N -cep <cep> -numero <numero> [-complemento <texto>]
  gerenciador addresses rm [-user N] -id N [-yes]
  gerenciador cep <cep>
`)
}
