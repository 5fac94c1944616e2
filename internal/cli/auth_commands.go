package cli

import (
	"context"
	"flag"
	"fmt"
)

func (c *CLI) runLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(c.out)
	email := fs.String("email", "", "account email")
	senha := fs.String("senha", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := c.auth.Login(ctx, *email, *senha)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Bem-vindo, %s!\n", user.Nome)
	if user.IsAdmin() {
		fmt.Fprintln(c.out, "logged in as administrator")
	}
	return nil
}

func (c *CLI) runRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(c.out)
	nome := fs.String("nome", "", "full name")
	email := fs.String("email", "", "account email")
	senha := fs.String("senha", "", "account password")
	confirma := fs.String("confirma", "", "password confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := c.auth.Register(ctx, *nome, *email, *senha, *confirma)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "account created, Bem-vindo %s!\n", user.Nome)
	return nil
}

func (c *CLI) runLogout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("logout", flag.ContinueOnError)
	fs.SetOutput(c.out)
	if err := fs.Parse(args); err != nil {
		return err
	}

	c.auth.Logout()
	fmt.Fprintln(c.out, "logged out")
	return nil
}

func (c *CLI) runWhoami(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("whoami", flag.ContinueOnError)
	fs.SetOutput(c.out)
	if err := fs.Parse(args); err != nil {
		return err
	}

	user := c.session.User()
	if user == nil {
		return fmt.Errorf("not logged in")
	}

	fmt.Fprintf(c.out, "id:    %d\n", user.ID)
	fmt.Fprintf(c.out, "nome:  %s\n", user.Nome)
	fmt.Fprintf(c.out, "email: %s\n", user.Email)
	fmt.Fprintf(c.out, "role:  %s\n", user.Role)
	return nil
}
