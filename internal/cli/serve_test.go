package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/wikistream/internal/metrics"
)

func TestServeMissingSchedule(t *testing.T) {
	env := newTestEnv(t, "")

	_, err := execute(t, "--config", env.configPath, "serve")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "no resend schedule configured")
}

func TestServeInvalidSchedule(t *testing.T) {
	env := newTestEnv(t, "")

	_, err := execute(t, "--config", env.configPath, "serve", "--schedule", "every minute")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestServeWithTimeout(t *testing.T) {
	env := newTestEnv(t, "")

	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", env.configPath, "serve", "--schedule", "*/5 * * * *"})

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- cmd.ExecuteContext(ctx)
	}()

	select {
	case err := <-errChan:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("command did not respect context timeout")
	}

	output := buf.String()
	assert.Contains(t, output, "Resend scheduler started (*/5 * * * *).")
	assert.Contains(t, output, "Next run:")
}

func TestMetricsServerHandlers(t *testing.T) {
	env := &environment{
		metrics: metrics.NewCollector(metrics.Config{Enabled: true, Namespace: "wikistream"}, nil),
	}
	env.metrics.MailStatusRecorded("sent")
	srv := newMetricsServer(env, ":0")

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `wikistream_mail_status_total{state="sent"} 1`)
}
