package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/mauandrade99/gerenciador-cli/internal/model"
)

func (c *CLI) runUsers(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: gerenciador users list|update|rm")
	}

	switch args[0] {
	case "list":
		return c.runUsersList(ctx, args[1:])
	case "update":
		return c.runUsersUpdate(ctx, args[1:])
	case "rm":
		return c.runUsersDelete(ctx, args[1:])
	default:
		return fmt.Errorf("unknown users subcommand %q", args[0])
	}
}

func (c *CLI) runUsersList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("users list", flag.ContinueOnError)
	fs.SetOutput(c.out)
	page := fs.Int("page", 0, "page number (zero-based)")
	size := fs.Int("size", c.pageSize, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := c.users.List(ctx, *page, *size)
	if err != nil {
		return err
	}

	c.renderUsers(result)
	return nil
}

func (c *CLI) runUsersUpdate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("users update", flag.ContinueOnError)
	fs.SetOutput(c.out)
	id := fs.Int64("id", 0, "user id")
	nome := fs.String("nome", "", "new name")
	role := fs.String("role", "", "ROLE_USER or ROLE_ADMIN")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := c.users.Update(ctx, *id, *nome, *role)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "updated user %d (%s, %s)\n", user.ID, user.Nome, user.Role)
	return nil
}

func (c *CLI) runUsersDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("users rm", flag.ContinueOnError)
	fs.SetOutput(c.out)
	id := fs.Int64("id", 0, "user id")
	yes := fs.Bool("yes", false, "skip confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*yes && !c.confirm(fmt.Sprintf("delete user %d?", *id)) {
		fmt.Fprintln(c.out, "aborted")
		return nil
	}

	if err := c.users.Delete(ctx, *id); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "deleted user %d\n", *id)
	return nil
}

func (c *CLI) renderUsers(page *model.Page[model.User]) {
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNOME\tEMAIL\tROLE")
	for _, u := range page.Content {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.Nome, u.Email, u.Role)
	}
	_ = w.Flush()

	totalPages := page.TotalPages
	if totalPages == 0 {
		totalPages = 1
	}
	fmt.Fprintf(c.out, "page %d/%d, %d users total\n", page.Number+1, totalPages, page.TotalElements)
}
