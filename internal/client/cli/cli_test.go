package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/dashsync/internal/client/api"
	"github.com/iudanet/dashsync/internal/client/iocli"
	pkgapi "github.com/iudanet/dashsync/pkg/api"
)

// newOutput собирает вывод в буфер
func newOutput() (*iocli.IOMock, *strings.Builder) {
	var buf strings.Builder
	return &iocli.IOMock{
		PrintlnFunc: func(a ...any) { buf.WriteString(fmt.Sprintln(a...)) },
		PrintfFunc:  func(format string, a ...any) { buf.WriteString(fmt.Sprintf(format, a...)) },
	}, &buf
}

func TestResolveToken(t *testing.T) {
	env := func(values map[string]string) func(string) string {
		return func(key string) string { return values[key] }
	}
	terminal := func(secret string, err error) *iocli.IOMock {
		return &iocli.IOMock{
			IsTerminalFunc: func() bool { return true },
			ReadSecretFunc: func(prompt string) (string, error) { return secret, err },
		}
	}
	pipe := &iocli.IOMock{IsTerminalFunc: func() bool { return false }}

	tests := []struct {
		term    iocli.IO
		env     map[string]string
		name    string
		flag    string
		want    string
		wantErr error
	}{
		{name: "flag wins", flag: "from-flag", env: map[string]string{EnvToken: "from-env"}, term: pipe, want: "from-flag"},
		{name: "env", env: map[string]string{EnvToken: " from-env "}, term: pipe, want: "from-env"},
		{name: "prompt", term: terminal("typed", nil), want: "typed"},
		{name: "prompt empty", term: terminal("", nil), wantErr: ErrNoToken},
		{name: "not a terminal", term: pipe, wantErr: ErrNoToken},
		{name: "no terminal at all", term: nil, wantErr: ErrNoToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveToken(tt.flag, env(tt.env), tt.term)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	// ошибка чтения из терминала
	_, err := ResolveToken("", env(nil), terminal("", errors.New("interrupted")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interrupted")
}

func TestRunner_Get(t *testing.T) {
	client := &StateClientMock{
		GetStateFunc: func(ctx context.Context, workspaceID string) (*pkgapi.StateResponse, error) {
			if workspaceID == "ws1" {
				return &pkgapi.StateResponse{Version: 2, State: []byte(`{"a":1}`)}, nil
			}
			return nil, api.ErrNotFound
		},
	}
	out, buf := newOutput()
	r := NewRunner(client, out, strings.NewReader(""))

	require.NoError(t, r.Run(context.Background(), "get", "ws1", ""))
	assert.Contains(t, buf.String(), `"version": 2`)

	buf.Reset()
	require.NoError(t, r.Run(context.Background(), "get", "ws2", ""))
	assert.Contains(t, buf.String(), "No state stored for workspace ws2")
}

func TestRunner_Save(t *testing.T) {
	tests := []struct {
		result  *api.SaveResult
		name    string
		input   string
		wantOut string
		wantErr error
	}{
		{
			name:    "saved",
			input:   `{"version":1,"state":{}}`,
			result:  &api.SaveResult{SaveStateResponse: pkgapi.SaveStateResponse{Success: true, ServerVersion: 1}},
			wantOut: "Saved version 1\n",
		},
		{
			name:    "saved over older",
			input:   `{"version":4,"state":{}}`,
			result:  &api.SaveResult{SaveStateResponse: pkgapi.SaveStateResponse{Success: true, ServerVersion: 4, ConflictResolution: "client"}},
			wantOut: "Saved version 4 (replaced older server state)\n",
		},
		{
			name:    "conflict",
			input:   `{"version":1,"state":{}}`,
			result:  &api.SaveResult{SaveStateResponse: pkgapi.SaveStateResponse{ServerVersion: 3, ConflictResolution: "server"}},
			wantOut: "Rejected: server has version 3\n",
			wantErr: ErrConflict,
		},
		{
			name:    "not saved",
			input:   `{"version":1,"state":{}}`,
			result:  &api.SaveResult{SaveStateResponse: pkgapi.SaveStateResponse{ServerVersion: 1}},
			wantErr: ErrNotSaved,
		},
		{name: "missing version", input: `{"state":{}}`, wantErr: ErrUsage},
		{name: "missing state", input: `{"version":1}`, wantErr: ErrUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &StateClientMock{
				SaveStateFunc: func(ctx context.Context, workspaceID string, req pkgapi.SaveStateRequest) (*api.SaveResult, error) {
					return tt.result, nil
				},
			}
			out, buf := newOutput()
			r := NewRunner(client, out, strings.NewReader(tt.input))

			err := r.Run(context.Background(), "save", "ws1", "-")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantOut, buf.String())
		})
	}
}

func TestRunner_SaveFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":9,"state":{"from":"file"},"checksum":"c"}`), 0600))

	client := &StateClientMock{
		SaveStateFunc: func(ctx context.Context, workspaceID string, req pkgapi.SaveStateRequest) (*api.SaveResult, error) {
			return &api.SaveResult{SaveStateResponse: pkgapi.SaveStateResponse{Success: true, ServerVersion: *req.Version}}, nil
		},
	}
	out, _ := newOutput()
	r := NewRunner(client, out, strings.NewReader("ignored"))

	require.NoError(t, r.Run(context.Background(), "save", "ws1", path))
	calls := client.SaveStateCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, int64(9), *calls[0].Req.Version)
	assert.Equal(t, "c", calls[0].Req.Checksum)
	assert.JSONEq(t, `{"from":"file"}`, string(calls[0].Req.State))

	err := r.Run(context.Background(), "save", "ws1", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestRunner_Delete(t *testing.T) {
	client := &StateClientMock{
		DeleteStateFunc: func(ctx context.Context, workspaceID string) (*pkgapi.DeleteStateResponse, error) {
			return &pkgapi.DeleteStateResponse{Success: workspaceID == "ws1"}, nil
		},
	}
	out, buf := newOutput()
	r := NewRunner(client, out, nil)

	require.NoError(t, r.Run(context.Background(), "delete", "ws1", ""))
	require.NoError(t, r.Run(context.Background(), "delete", "ws2", ""))
	assert.Equal(t, "Deleted state of workspace ws1\nNothing to delete for workspace ws2\n", buf.String())
}

func TestRunner_Usage(t *testing.T) {
	r := NewRunner(&StateClientMock{}, &iocli.IOMock{}, nil)

	assert.ErrorIs(t, r.Run(context.Background(), "list", "ws1", ""), ErrUsage)
	assert.ErrorIs(t, r.Run(context.Background(), "get", "bad:ws", ""), ErrUsage)

	out, buf := newOutput()
	PrintUsage(out)
	assert.Contains(t, buf.String(), "Usage: dashsync")
	assert.Contains(t, buf.String(), EnvToken)
}
