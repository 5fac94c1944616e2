package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/mauandrade99/gerenciador-cli/internal/model"
)

func (c *CLI) runAddresses(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: gerenciador addresses list|add|update|rm")
	}

	switch args[0] {
	case "list":
		return c.runAddressesList(ctx, args[1:])
	case "add":
		return c.runAddressesAdd(ctx, args[1:])
	case "update":
		return c.runAddressesUpdate(ctx, args[1:])
	case "rm":
		return c.runAddressesDelete(ctx, args[1:])
	default:
		return fmt.Errorf("unknown addresses subcommand %q", args[0])
	}
}

// userFlag defaults to the logged-in user so non-admins never need to
// pass -user.
func (c *CLI) userFlag(fs *flag.FlagSet) *int64 {
	current := int64(0)
	if user := c.session.User(); user != nil {
		current = user.ID
	}
	return fs.Int64("user", current, "owner user id")
}

func (c *CLI) runAddressesList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("addresses list", flag.ContinueOnError)
	fs.SetOutput(c.out)
	userID := c.userFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	addresses, err := c.addresses.List(ctx, *userID)
	if err != nil {
		return err
	}

	c.renderAddresses(addresses)
	return nil
}

func (c *CLI) runAddressesAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("addresses add", flag.ContinueOnError)
	fs.SetOutput(c.out)
	userID := c.userFlag(fs)
	cepCode := fs.String("cep", "", "postal code (8 digits)")
	numero := fs.String("numero", "", "street number")
	complemento := fs.String("complemento", "", "complement")
	if err := fs.Parse(args); err != nil {
		return err
	}

	address, err := c.addresses.Create(ctx, *userID, *cepCode, *numero, *complemento)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "created address %d (%s, %s - %s)\n", address.ID, address.Logradouro, address.Numero, address.Cidade)
	return nil
}

func (c *CLI) runAddressesUpdate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("addresses update", flag.ContinueOnError)
	fs.SetOutput(c.out)
	userID := c.userFlag(fs)
	id := fs.Int64("id", 0, "address id")
	cepCode := fs.String("cep", "", "postal code (8 digits)")
	numero := fs.String("numero", "", "street number")
	complemento := fs.String("complemento", "", "complement")
	if err := fs.Parse(args); err != nil {
		return err
	}

	address, err := c.addresses.Update(ctx, *userID, *id, *cepCode, *numero, *complemento)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "updated address %d\n", address.ID)
	return nil
}

func (c *CLI) runAddressesDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("addresses rm", flag.ContinueOnError)
	fs.SetOutput(c.out)
	userID := c.userFlag(fs)
	id := fs.Int64("id", 0, "address id")
	yes := fs.Bool("yes", false, "skip confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*yes && !c.confirm(fmt.Sprintf("delete address %d?", *id)) {
		fmt.Fprintln(c.out, "aborted")
		return nil
	}

	if err := c.addresses.Delete(ctx, *userID, *id); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "deleted address %d\n", *id)
	return nil
}

func (c *CLI) runCEP(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: gerenciador cep <cep>")
	}

	result, err := c.addresses.Autofill(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "cep:        %s\n", result.CEP)
	fmt.Fprintf(c.out, "logradouro: %s\n", result.Logradouro)
	fmt.Fprintf(c.out, "bairro:     %s\n", result.Bairro)
	fmt.Fprintf(c.out, "cidade:     %s\n", result.Localidade)
	fmt.Fprintf(c.out, "estado:     %s\n", result.UF)
	return nil
}

func (c *CLI) renderAddresses(addresses []model.Address) {
	if len(addresses) == 0 {
		fmt.Fprintln(c.out, "no addresses")
		return
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCEP\tLOGRADOURO\tNUMERO\tBAIRRO\tCIDADE\tESTADO")
	for _, a := range addresses {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", a.ID, a.CEP, a.Logradouro, a.Numero, a.Bairro, a.Cidade, a.Estado)
	}
	_ = w.Flush()
}
