package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/iudanet/celar/internal/validation"
	pkgapi "github.com/iudanet/celar/pkg/api"
)

func (c *Cli) runMe(ctx context.Context, _ []string) error {
	profile, err := c.apiClient.Me(ctx)
	if err != nil {
		return err
	}
	c.printProfile(profile)
	return nil
}

func (c *Cli) runProfile(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: missing username", ErrUsage)
	}
	profile, err := c.apiClient.Profile(ctx, args[0])
	if err != nil {
		return err
	}
	c.printProfile(profile)
	return nil
}

func (c *Cli) printProfile(p *pkgapi.ProfileResponse) {
	c.io.Printf("Username: %s\n", p.Username)
	c.io.Printf("Software: %s\n", formatSoftware(p.Software))
	c.io.Printf("Coins: %d\n", p.Coins)
}

func (c *Cli) runUsers(ctx context.Context, args []string) error {
	fs := c.newFlagSet("users")
	limit := fs.Int("limit", validation.DefaultUsersLimit, "maximum number of users")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if err := validation.ValidateLimit(*limit); err != nil {
		return err
	}

	users, err := c.apiClient.Users(ctx, *limit)
	if err != nil {
		return err
	}

	if len(users) == 0 {
		c.io.Println("No users found.")
		return nil
	}
	for _, u := range users {
		c.io.Printf("%-32s %s\n", u.Username, formatSoftware(u.Software))
	}
	return nil
}

func (c *Cli) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.io)
	return fs
}

func formatSoftware(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	return strings.Join(tags, ", ")
}
