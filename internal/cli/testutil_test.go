package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// fakeBoard stands in for the board API. It records created cards and
// uploaded attachments.
type fakeBoard struct {
	mu          sync.Mutex
	cards       []map[string]string
	attachments map[string][]byte
	failCreate  bool
}

func newFakeBoard(t *testing.T) (*fakeBoard, *httptest.Server) {
	t.Helper()

	b := &fakeBoard{attachments: map[string][]byte{}}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /cards", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.failCreate {
			http.Error(w, "invalid list", http.StatusBadRequest)
			return
		}
		card := map[string]string{}
		for k := range r.PostForm {
			card[k] = r.PostForm.Get(k)
		}
		b.cards = append(b.cards, card)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "card1"})
	})
	mux.HandleFunc("POST /cards/{id}/attachments", func(w http.ResponseWriter, r *http.Request) {
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		b.mu.Lock()
		b.attachments[r.PathValue("id")] = data
		b.mu.Unlock()
		_, _ = w.Write([]byte(`{}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *fakeBoard) Cards() []map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]map[string]string(nil), b.cards...)
}

func (b *fakeBoard) Attachment(cardID string) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attachments[cardID]
}

// setupEnv points the configuration at board and a temporary history
// database.
func setupEnv(t *testing.T, board *httptest.Server) {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv("MREPORT_TRELLO_BASE_URL", board.URL)
	t.Setenv("MREPORT_TRELLO_API_KEY", "key")
	t.Setenv("MREPORT_TRELLO_TOKEN", "token")
	t.Setenv("MREPORT_BUG_LIST_ID", "list-bugs")
	t.Setenv("MREPORT_FEEDBACK_LIST_ID", "list-feedback")
	t.Setenv("MREPORT_APP_VERSION", "1.4.2")
	t.Setenv("MREPORT_REQUEST_TIMEOUT", "5s")
	t.Setenv("MREPORT_LOG_LEVEL", "error")
	t.Setenv("MREPORT_DATABASE_URL", "file:"+filepath.Join(dir, "history.db"))
}

// runCommand executes the root command with args and returns what it wrote
// to stdout.
func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	if errOut.Len() > 0 {
		t.Logf("stderr: %s", errOut.String())
	}
	return out.String(), err
}

// resetFlags restores every flag to its default so package-level flag
// variables do not leak between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
