package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/wikistream/internal/mail"
	"github.com/roach88/wikistream/internal/store"
)

// testEnv is a config file pointing at a temporary database and content
// directory.
type testEnv struct {
	dir        string
	configPath string
	dbPath     string
	contentDir string
}

func newTestEnv(t *testing.T, extra string) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		dir:        dir,
		configPath: filepath.Join(dir, "wikistream.yaml"),
		dbPath:     filepath.Join(dir, "wikistream.db"),
		contentDir: filepath.Join(dir, "mails"),
	}

	cfg := fmt.Sprintf(`default_wiki: xwiki
log:
  level: error
database:
  driver: sqlite3
  dsn: %s
mail:
  content_dir: %s
  provider:
    name: log
    from: wiki@example.org
%s`, env.dbPath, env.contentDir, extra)
	require.NoError(t, os.WriteFile(env.configPath, []byte(cfg), 0644))
	return env
}

// seedFailed stores a failed status for msg and saves its content, the way
// the listener leaves a mail whose delivery failed.
func (e *testEnv) seedFailed(t *testing.T, msg *mail.Message, date time.Time) {
	t.Helper()
	ctx := context.Background()

	st, err := store.Open(e.dbPath)
	require.NoError(t, err)
	defer st.Close()

	status := mail.NewStatus(msg, mail.StateFailed, date)
	status.SetError(fmt.Errorf("smtp: %w", fmt.Errorf("connection refused")))
	require.NoError(t, st.SaveStatus(ctx, status))
	require.NoError(t, mail.NewFileContentStore(e.contentDir).Save(ctx, msg))
}

func (e *testEnv) seedSent(t *testing.T, msg *mail.Message, date time.Time) {
	t.Helper()
	st, err := store.Open(e.dbPath)
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, st.SaveStatus(context.Background(), mail.NewStatus(msg, mail.StateSent, date)))
}

func testMessage(batchID, messageID string, to ...string) *mail.Message {
	msg := mail.NewMessage("wiki@example.org", to, "Page updated", "Sandbox.WebHome was updated.")
	msg.SetIDs(messageID, batchID)
	msg.Header.Set(mail.HeaderMailType, "watchlist")
	msg.Header.Set(mail.HeaderWiki, "xwiki")
	return msg
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeCommand(t, NewRootCommand(), args...)
}

func executeCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeExpression(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "filter.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
