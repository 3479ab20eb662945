package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/wikistream/internal/expr"
	"github.com/roach88/wikistream/internal/hql"
	"github.com/roach88/wikistream/internal/mail"
)

var (
	_ hql.Observer        = (*Collector)(nil)
	_ mail.StatusObserver = (*Collector)(nil)
)

func TestCollector_MailStatuses(t *testing.T) {
	c := NewCollector(Config{Enabled: true, Namespace: "test"}, nil)

	c.MailStatusRecorded("ready")
	c.MailStatusRecorded("ready")
	c.MailStatusRecorded("failed")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.mailStatuses.WithLabelValues("ready")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.mailStatuses.WithLabelValues("failed")))
}

func TestCollector_ObservesConverter(t *testing.T) {
	c := NewCollector(Config{Enabled: true}, nil)
	conv := hql.NewConverter(nil, hql.WithObserver(c))

	_, err := conv.Convert(expr.Eq(expr.Prop(expr.PropertyType), expr.String("update")))
	require.NoError(t, err)
	_, err = conv.Convert(expr.Eq(expr.Prop(expr.PropertyType), nil))
	require.Error(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.conversions))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.unsupportedNodes))
}

func TestCollector_Disabled(t *testing.T) {
	c := NewCollector(Config{}, nil)
	c.MailStatusRecorded("sent")
	c.ConversionCompleted(3, 0)

	assert.Zero(t, testutil.ToFloat64(c.conversions))
	assert.Zero(t, testutil.ToFloat64(c.mailStatuses.WithLabelValues("sent")))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector(Config{Enabled: true}, nil)
	c.MailStatusRecorded("sent")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `wikistream_mail_status_total{state="sent"} 1`)
}
