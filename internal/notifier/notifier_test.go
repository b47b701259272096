package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func stubConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := userConfigDirFunc
	userConfigDirFunc = func() (string, error) { return dir, nil }
	t.Cleanup(func() { userConfigDirFunc = old })
	return dir
}

func stubProcess(t *testing.T, executable string) {
	t.Helper()
	old := findProcessFunc
	findProcessFunc = func(pid int) (ps.Process, error) {
		if executable == "" {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: executable}, nil
	}
	t.Cleanup(func() { findProcessFunc = old })
}

func TestGetTrayAppConfigDir(t *testing.T) {
	base := stubConfigDir(t)

	trayDir := filepath.Join(base, constants.TrayAppIdentifier)
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != trayDir {
		t.Errorf("expected %s, got %s", trayDir, dir)
	}

	if err := os.MkdirAll(trayDir, 0755); err != nil {
		t.Fatal(err)
	}
	customDir := "/custom/habitual/dir"
	settingsJSON := fmt.Sprintf(`{"settings": {"lockfile_dir": "%s"}}`, customDir)
	if err := os.WriteFile(filepath.Join(trayDir, "settings.json"), []byte(settingsJSON), 0644); err != nil {
		t.Fatal(err)
	}

	dir, err = GetTrayAppConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != customDir {
		t.Errorf("expected %s, got %s", customDir, dir)
	}
}

func TestFindAndValidateTrayProcess(t *testing.T) {
	tests := []struct {
		name       string
		lockfile   string
		executable string
		wantErr    string
	}{
		{name: "old two part format", lockfile: "8080|12345", wantErr: "malformed"},
		{name: "garbage", lockfile: "invalid", wantErr: "malformed"},
		{name: "empty secret", lockfile: "8080|12345|", wantErr: "secret"},
		{name: "empty port", lockfile: "|12345|s3cret", wantErr: "port"},
		{name: "port out of range", lockfile: "99999|12345|s3cret", wantErr: "range"},
		{name: "bad pid", lockfile: "8080|abc|s3cret", wantErr: "process ID"},
		{name: "process gone", lockfile: "8080|12345|s3cret", wantErr: "not running"},
		{name: "wrong executable", lockfile: "8080|12345|s3cret", executable: "other-app", wantErr: "is not"},
		{name: "valid", lockfile: "8080|12345|s3cret", executable: constants.TrayAppExecutable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubProcess(t, tt.executable)
			lockfilePath := filepath.Join(t.TempDir(), constants.NotifierLockfileName)
			if err := os.WriteFile(lockfilePath, []byte(tt.lockfile), 0644); err != nil {
				t.Fatal(err)
			}

			port, secret, err := findAndValidateTrayProcess(lockfilePath)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want it to mention %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if port != "8080" || secret != "s3cret" {
				t.Errorf("got port=%s secret=%s", port, secret)
			}
		})
	}

	t.Run("missing lockfile", func(t *testing.T) {
		_, _, err := findAndValidateTrayProcess(filepath.Join(t.TempDir(), "absent.lock"))
		if !errors.Is(err, ErrTrayNotRunning) {
			t.Errorf("error = %v, want ErrTrayNotRunning", err)
		}
	})
}

func newTrayServer(t *testing.T, failures int32) (*httptest.Server, *atomic.Int32, *[]string) {
	t.Helper()
	var calls atomic.Int32
	var mu sync.Mutex
	var texts []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if r.Header.Get(constants.TraySecretHeader) != "test-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorized"))
			return
		}
		if n <= failures {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		var payload WebhookPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		mu.Lock()
		texts = append(texts, payload.Text)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, &calls, &texts
}

func serverPort(server *httptest.Server) string {
	parts := strings.Split(server.URL, ":")
	return parts[len(parts)-1]
}

func TestSend(t *testing.T) {
	server, _, _ := newTrayServer(t, 0)
	port := serverPort(server)
	n := New()
	ctx := context.Background()

	if err := n.send(ctx, port, "test-secret", WebhookPayload{Text: "hello"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := n.send(ctx, port, "wrong-secret", WebhookPayload{Text: "hello"}); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func writeLockfile(t *testing.T, configDir, port string) {
	t.Helper()
	trayDir := filepath.Join(configDir, constants.TrayAppIdentifier)
	if err := os.MkdirAll(trayDir, 0755); err != nil {
		t.Fatal(err)
	}
	content := fmt.Sprintf("%s|4242|test-secret", port)
	if err := os.WriteFile(filepath.Join(trayDir, constants.NotifierLockfileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestNotifyBadges_RetriesTransientFailure(t *testing.T) {
	server, calls, texts := newTrayServer(t, 1)
	writeLockfile(t, stubConfigDir(t), serverPort(server))
	stubProcess(t, constants.TrayAppExecutable)

	defs := []models.BadgeDefinition{
		{ID: "first-step", Name: "First Step", Icon: "👣", Rarity: models.RarityCommon},
	}
	if err := New().NotifyBadges(context.Background(), defs); err != nil {
		t.Fatalf("NotifyBadges failed: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server saw %d calls, want 2", got)
	}
	if len(*texts) != 1 || (*texts)[0] != "👣 Badge earned: First Step" {
		t.Errorf("delivered texts = %q", *texts)
	}
}

func TestNotify_TrayNotRunning(t *testing.T) {
	stubConfigDir(t)

	err := New().Notify(context.Background(), "hello")
	if !errors.Is(err, ErrTrayNotRunning) {
		t.Errorf("Notify() error = %v, want ErrTrayNotRunning", err)
	}
}

func TestBadgeMessage(t *testing.T) {
	tests := []struct {
		def  models.BadgeDefinition
		want string
	}{
		{def: models.BadgeDefinition{Name: "First Step", Rarity: models.RarityCommon}, want: "Badge earned: First Step"},
		{def: models.BadgeDefinition{Name: "Century Club", Icon: "💯", Rarity: models.RarityLegendary}, want: "💯 Badge earned: Century Club (legendary)"},
	}
	for _, tt := range tests {
		if got := BadgeMessage(tt.def); got != tt.want {
			t.Errorf("BadgeMessage() = %q, want %q", got, tt.want)
		}
	}
}
