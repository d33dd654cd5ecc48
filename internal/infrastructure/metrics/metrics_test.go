package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRemoteCall(t *testing.T) {
	before := testutil.ToFloat64(remoteCalls.WithLabelValues("list_products", "error"))
	RecordRemoteCall("list_products", errors.New("boom"))
	after := testutil.ToFloat64(remoteCalls.WithLabelValues("list_products", "error"))
	assert.Equal(t, before+1, after)
}

func TestHandlerExposesCounters(t *testing.T) {
	RecordInstallCheck("allow")
	RecordWebhook("app/uninstalled", "ok")

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "shopify_app_install_checks_total")
	assert.Contains(t, string(body), "shopify_app_webhooks_received_total")
}
