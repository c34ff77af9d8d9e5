package cli

import "context"

func (c *Cli) runDetails(ctx context.Context, _ []string) error {
	details, err := c.apiClient.Details(ctx)
	if err != nil {
		return err
	}
	c.io.Printf("Version: %s\n", details.Version)
	c.io.Printf("Demo: %t\n", details.Demo)
	return nil
}

func (c *Cli) runHealth(ctx context.Context, _ []string) error {
	health, err := c.apiClient.Health(ctx)
	if err != nil {
		return err
	}
	c.io.Printf("Status: %s\n", health.Status)
	c.io.Printf("Version: %s\n", health.Version)
	return nil
}
