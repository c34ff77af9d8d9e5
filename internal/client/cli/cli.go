package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/iudanet/celar/internal/client/iocli"
	"github.com/iudanet/celar/internal/client/storage"
	"github.com/iudanet/celar/internal/validation"
	pkgapi "github.com/iudanet/celar/pkg/api"
)

// PasswordEnv - переменная окружения с паролем, имеет приоритет над вводом с терминала
const PasswordEnv = "CELAR_PASSWORD"

var (
	// ErrUnknownCommand - команда не распознана
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUsage - неверные аргументы команды
	ErrUsage = errors.New("invalid arguments")
	// ErrNotAuthenticated - нет сохраненной сессии
	ErrNotAuthenticated = errors.New("not authenticated, run 'celar-client login <username>' first")
	// ErrSessionExpired - токен сессии истек
	ErrSessionExpired = errors.New("session expired, run 'celar-client login <username>' again")
)

// APIClient - операции сервера, которые использует CLI
type APIClient interface {
	SetAccessToken(token string)
	Details(ctx context.Context) (*pkgapi.DetailsResponse, error)
	Health(ctx context.Context) (*pkgapi.HealthResponse, error)
	Register(ctx context.Context, req pkgapi.RegisterRequest) (*pkgapi.RegisterResponse, error)
	Login(ctx context.Context, req pkgapi.LoginRequest) (*pkgapi.TokenResponse, error)
	Me(ctx context.Context) (*pkgapi.ProfileResponse, error)
	Profile(ctx context.Context, username string) (*pkgapi.ProfileResponse, error)
	Users(ctx context.Context, limit int) ([]pkgapi.UserSummary, error)
	CreatePost(ctx context.Context, content []byte) (*pkgapi.PostCreatedResponse, error)
	Feed(ctx context.Context, limit int, newest bool) ([]pkgapi.FeedPost, error)
	Like(ctx context.Context, postID int64) (*pkgapi.LikeStateResponse, error)
	Unlike(ctx context.Context, postID int64) (*pkgapi.LikeStateResponse, error)
	Toggle(ctx context.Context, postID int64) (*pkgapi.LikeStateResponse, error)
	Likes(ctx context.Context, postID int64) (*pkgapi.LikeStateResponse, error)
	DeletePost(ctx context.Context, postID int64) error
}

type Cli struct {
	io        iocli.IO
	apiClient APIClient
	authStore storage.AuthStorage
	now       func() time.Time
	getenv    func(string) string
	serverURL string
}

// New создает CLI. serverURL сохраняется в сессии при login
func New(io iocli.IO, apiClient APIClient, authStore storage.AuthStorage, serverURL string) *Cli {
	return &Cli{
		io:        io,
		apiClient: apiClient,
		authStore: authStore,
		serverURL: serverURL,
		now:       time.Now,
		getenv:    os.Getenv,
	}
}

type commandFunc func(c *Cli, ctx context.Context, args []string) error

type command struct {
	run       commandFunc
	usage     string
	summary   string
	protected bool
}

var commands = map[string]command{
	"register": {run: (*Cli).runRegister, usage: "register <username> [software...]", summary: "Register new user"},
	"login":    {run: (*Cli).runLogin, usage: "login <username>", summary: "Login and save the session locally"},
	"logout":   {run: (*Cli).runLogout, usage: "logout", summary: "Forget the local session"},
	"status":   {run: (*Cli).runStatus, usage: "status", summary: "Show authentication status"},
	"details":  {run: (*Cli).runDetails, usage: "details", summary: "Show server version"},
	"health":   {run: (*Cli).runHealth, usage: "health", summary: "Check server health"},
	"me":       {run: (*Cli).runMe, usage: "me", summary: "Show own profile", protected: true},
	"profile":  {run: (*Cli).runProfile, usage: "profile <username>", summary: "Show user profile", protected: true},
	"users":    {run: (*Cli).runUsers, usage: "users [-limit N]", summary: "List users", protected: true},
	"post":     {run: (*Cli).runPost, usage: "post <file>", summary: "Publish file content as a post", protected: true},
	"feed":     {run: (*Cli).runFeed, usage: "feed [-limit N] [-newest]", summary: "Show posts", protected: true},
	"like":     {run: (*Cli).runLike, usage: "like <id>", summary: "Like a post", protected: true},
	"unlike":   {run: (*Cli).runUnlike, usage: "unlike <id>", summary: "Remove like from a post", protected: true},
	"toggle":   {run: (*Cli).runToggle, usage: "toggle <id>", summary: "Toggle like on a post", protected: true},
	"likes":    {run: (*Cli).runLikes, usage: "likes <id>", summary: "Show likes of a post", protected: true},
	"delete":   {run: (*Cli).runDelete, usage: "delete <id>", summary: "Delete own post", protected: true},
}

// порядок вывода в справке
var commandOrder = []string{
	"register", "login", "logout", "status", "me", "profile", "users",
	"post", "feed", "like", "unlike", "toggle", "likes", "delete", "details", "health",
}

// Run выполняет команду. Защищенные команды требуют действующей сессии
func (c *Cli) Run(ctx context.Context, name string, args []string) error {
	cmd, ok := commands[name]
	if !ok {
		c.PrintUsage()
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	if cmd.protected {
		if err := c.restoreSession(ctx); err != nil {
			return err
		}
	}

	if err := cmd.run(c, ctx, args); err != nil {
		if errors.Is(err, ErrUsage) {
			return fmt.Errorf("%w, usage: celar-client %s", err, cmd.usage)
		}
		return err
	}
	return nil
}

// restoreSession загружает токен из локального хранилища в API клиент
func (c *Cli) restoreSession(ctx context.Context) error {
	auth, err := c.authStore.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return ErrNotAuthenticated
		}
		return fmt.Errorf("failed to get auth data: %w", err)
	}
	if auth.Expired(c.now()) {
		return ErrSessionExpired
	}
	c.apiClient.SetAccessToken(auth.AccessToken)
	return nil
}

// readPassword: сначала CELAR_PASSWORD, затем ввод без эха
func (c *Cli) readPassword(prompt string) (password string, fromEnv bool, err error) {
	if env := c.getenv(PasswordEnv); env != "" {
		return env, true, nil
	}
	password, err = c.io.ReadPassword(prompt)
	if err != nil {
		return "", false, fmt.Errorf("failed to read password: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return "", false, err
	}
	return password, false, nil
}

// PrintUsage печатает справку
func (c *Cli) PrintUsage() {
	c.io.Println("Celar Client")
	c.io.Println()
	c.io.Println("Usage:")
	c.io.Println("  celar-client [OPTIONS] COMMAND [ARGS]")
	c.io.Println()
	c.io.Println("Options:")
	c.io.Println("  -version      Show version information")
	c.io.Println("  -server URL   Server URL (default: the server of the saved session, else http://localhost:8000)")
	c.io.Println("  -db PATH      Path to local session database (default: celar-client.db)")
	c.io.Println()
	c.io.Println("Commands:")
	for _, name := range commandOrder {
		cmd := commands[name]
		c.io.Printf("  %-34s %s\n", cmd.usage, cmd.summary)
	}
	c.io.Println()
	c.io.Printf("The password is read from %s if set, otherwise from the terminal.\n", PasswordEnv)
}
