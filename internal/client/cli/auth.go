package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/celar/internal/client/storage"
	"github.com/iudanet/celar/internal/validation"
	pkgapi "github.com/iudanet/celar/pkg/api"
)

func (c *Cli) runRegister(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: missing username", ErrUsage)
	}
	username := args[0]
	if err := validation.ValidateUsername(username); err != nil {
		return err
	}

	c.io.Println("=== Registration ===")

	password, fromEnv, err := c.readPassword("Password: ")
	if err != nil {
		return err
	}
	if !fromEnv {
		confirm, err := c.io.ReadPassword("Confirm password: ")
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}
	}

	software := args[1:]
	if software == nil {
		software = []string{}
	}

	resp, err := c.apiClient.Register(ctx, pkgapi.RegisterRequest{
		Username: username,
		Password: password,
		Software: software,
	})
	if err != nil {
		return err
	}

	c.io.Printf("✓ %s\n", resp.Message)
	c.io.Printf("Run 'celar-client login %s' to start using the service.\n", username)
	return nil
}

func (c *Cli) runLogin(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: missing username", ErrUsage)
	}
	username := args[0]

	password, _, err := c.readPassword("Password: ")
	if err != nil {
		return err
	}

	resp, err := c.apiClient.Login(ctx, pkgapi.LoginRequest{Username: username, Password: password})
	if err != nil {
		return err
	}

	auth := &storage.AuthData{
		Username:    username,
		AccessToken: resp.AccessToken,
		ServerURL:   c.serverURL,
		ExpiresAt:   c.now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}
	if err := c.authStore.SaveAuth(ctx, auth); err != nil {
		return fmt.Errorf("failed to save auth data: %w", err)
	}

	c.io.Println("✓ Login successful!")
	c.io.Printf("Username: %s\n", username)
	c.io.Printf("Token expires: %s\n", auth.ExpiresAt.Format(time.RFC3339))
	return nil
}

// runLogout удаляет только локальную сессию: сервер не отзывает токены,
// скопированный токен остается действительным до истечения срока
func (c *Cli) runLogout(ctx context.Context, _ []string) error {
	if err := c.authStore.DeleteAuth(ctx); err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			c.io.Println("Not logged in.")
			return nil
		}
		return fmt.Errorf("logout failed: %w", err)
	}

	c.io.Println("✓ Logout successful!")
	c.io.Println("Your local session has been deleted.")
	return nil
}

func (c *Cli) runStatus(ctx context.Context, _ []string) error {
	c.io.Println("=== Authentication Status ===")

	auth, err := c.authStore.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			c.io.Println("Status: Not authenticated")
			c.io.Println("Run 'celar-client login <username>' to authenticate.")
			return nil
		}
		return fmt.Errorf("failed to get auth data: %w", err)
	}

	now := c.now()
	if auth.Expired(now) {
		c.io.Println("Status: Session expired")
	} else {
		c.io.Println("Status: Authenticated")
	}
	c.io.Printf("Username: %s\n", auth.Username)
	if auth.ServerURL != "" {
		c.io.Printf("Server: %s\n", auth.ServerURL)
	}
	c.io.Printf("Token expires: %s\n", auth.ExpiresAt.Format(time.RFC3339))
	if !auth.Expired(now) {
		c.io.Printf("Time remaining: %s\n", auth.ExpiresAt.Sub(now).Round(time.Second))
	}
	return nil
}
