// Package cli implements the commands of the dashsync client
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iudanet/dashsync/internal/client/api"
	"github.com/iudanet/dashsync/internal/client/iocli"
	"github.com/iudanet/dashsync/internal/validation"
	pkgapi "github.com/iudanet/dashsync/pkg/api"
)

//go:generate moq -out state_client_mock.go . StateClient

// Переменные окружения клиента
const (
	EnvToken  = "DASHSYNC_TOKEN"
	EnvServer = "DASHSYNC_SERVER"
)

var (
	// ErrNoToken - токен не передан и его негде запросить
	ErrNoToken = errors.New("no access token: use --token, " + EnvToken + " or run in a terminal")
	// ErrConflict - на сервере более новая версия
	ErrConflict = errors.New("server has a newer version")
	// ErrNotSaved - сервер не сохранил состояние (блокировка или хранилище)
	ErrNotSaved = errors.New("state was not saved, try again later")
	// ErrUsage - неверные аргументы
	ErrUsage = errors.New("invalid usage")
)

// StateClient is the part of the API client the commands use
type StateClient interface {
	GetState(ctx context.Context, workspaceID string) (*pkgapi.StateResponse, error)
	SaveState(ctx context.Context, workspaceID string, req pkgapi.SaveStateRequest) (*api.SaveResult, error)
	DeleteState(ctx context.Context, workspaceID string) (*pkgapi.DeleteStateResponse, error)
}

// ResolveToken выбирает токен: флаг, затем DASHSYNC_TOKEN, затем ввод в терминале
func ResolveToken(flagToken string, getenv func(string) string, term iocli.IO) (string, error) {
	if token := strings.TrimSpace(flagToken); token != "" {
		return token, nil
	}
	if token := strings.TrimSpace(getenv(EnvToken)); token != "" {
		return token, nil
	}
	if term == nil || !term.IsTerminal() {
		return "", ErrNoToken
	}

	token, err := term.ReadSecret("Access token: ")
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// Runner executes client commands
type Runner struct {
	client StateClient
	out    iocli.IO
	stdin  io.Reader
}

// NewRunner creates a Runner; stdin is read by save when no file is given
func NewRunner(client StateClient, out iocli.IO, stdin io.Reader) *Runner {
	return &Runner{client: client, out: out, stdin: stdin}
}

// Run dispatches command for workspaceID. file is used by save ("-" or "" is stdin).
func (r *Runner) Run(ctx context.Context, command, workspaceID, file string) error {
	if err := validation.ValidateWorkspaceID(workspaceID); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	switch command {
	case "get":
		return r.Get(ctx, workspaceID)
	case "save":
		input, closeFn, err := r.openInput(file)
		if err != nil {
			return err
		}
		defer closeFn()
		return r.Save(ctx, workspaceID, input)
	case "delete":
		return r.Delete(ctx, workspaceID)
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, command)
	}
}

// Get печатает состояние workspace
func (r *Runner) Get(ctx context.Context, workspaceID string) error {
	state, err := r.client.GetState(ctx, workspaceID)
	if errors.Is(err, api.ErrNotFound) {
		r.out.Println("No state stored for workspace", workspaceID)
		return nil
	}
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format state: %w", err)
	}
	r.out.Println(string(data))
	return nil
}

// Save читает {version, state, checksum?, modifiedAt?} из input и отправляет
func (r *Runner) Save(ctx context.Context, workspaceID string, input io.Reader) error {
	var req pkgapi.SaveStateRequest
	if err := json.NewDecoder(input).Decode(&req); err != nil {
		return fmt.Errorf("failed to parse state document: %w", err)
	}
	if req.Version == nil || *req.Version < 0 {
		return fmt.Errorf("%w: document needs a non-negative \"version\"", ErrUsage)
	}
	if len(req.State) == 0 {
		return fmt.Errorf("%w: document needs a \"state\"", ErrUsage)
	}

	result, err := r.client.SaveState(ctx, workspaceID, req)
	if err != nil {
		return err
	}

	switch {
	case result.Success:
		r.out.Printf("Saved version %d", result.ServerVersion)
		if result.ConflictResolution != "" {
			r.out.Printf(" (replaced older server state)")
		}
		r.out.Println()
		return nil
	case result.ConflictResolution == "server":
		r.out.Printf("Rejected: server has version %d\n", result.ServerVersion)
		return ErrConflict
	default:
		return ErrNotSaved
	}
}

// Delete удаляет состояние workspace
func (r *Runner) Delete(ctx context.Context, workspaceID string) error {
	resp, err := r.client.DeleteState(ctx, workspaceID)
	if err != nil {
		return err
	}
	if resp.Success {
		r.out.Println("Deleted state of workspace", workspaceID)
	} else {
		r.out.Println("Nothing to delete for workspace", workspaceID)
	}
	return nil
}

func (r *Runner) openInput(file string) (io.Reader, func(), error) {
	if file == "" || file == "-" {
		return r.stdin, func() {}, nil
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", file, err)
	}
	return f, func() { _ = f.Close() }, nil
}

// PrintUsage печатает справку по командам
func PrintUsage(out iocli.IO) {
	out.Println("Usage: dashsync [flags] <command> <workspace>")
	out.Println()
	out.Println("Commands:")
	out.Println("  get <workspace>      print the stored dashboard state")
	out.Println("  save <workspace>     store a state document read from --file or stdin")
	out.Println("  delete <workspace>   remove the stored state")
	out.Println()
	out.Println("State document: {\"version\": 1, \"state\": {...}, \"checksum\": \"...\"}")
	out.Println("Token: --token, " + EnvToken + " or an interactive prompt")
}
