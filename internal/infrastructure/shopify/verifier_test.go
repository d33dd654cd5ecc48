package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"shopify-embedded-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "hush"

func signBody(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func signQuery(t *testing.T, q url.Values) string {
	t.Helper()
	message, err := url.QueryUnescape(q.Encode())
	require.NoError(t, err)
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookAcceptsSignedBodyAndRestoresIt(t *testing.T) {
	body := []byte(`{"id":1,"domain":"demo.myshopify.com"}`)
	req := httptest.NewRequest("POST", "/api/webhooks/uninstalled", strings.NewReader(string(body)))
	req.Header.Set(HeaderHmac, signBody(body))

	v := NewVerifier("key", testSecret)
	require.NoError(t, v.VerifyWebhook(req))

	reread, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, body, reread)
}

func TestVerifyWebhookRejectsTamperedBody(t *testing.T) {
	body := []byte(`{"id":1}`)
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"id":2}`))
	req.Header.Set(HeaderHmac, signBody(body))

	err := NewVerifier("key", testSecret).VerifyWebhook(req)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestVerifyWebhookRejectsMissingHeader(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{}`))
	err := NewVerifier("key", testSecret).VerifyWebhook(req)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestVerifyQuery(t *testing.T) {
	q := url.Values{}
	q.Set("shop", "demo.myshopify.com")
	q.Set("host", "YWRtaW4uc2hvcGlmeS5jb20vc3RvcmUvZGVtbw")
	q.Set("timestamp", "1700000000")
	q.Set("hmac", signQuery(t, q))

	v := NewVerifier("key", testSecret)
	u := &url.URL{Path: "/", RawQuery: q.Encode()}
	assert.NoError(t, v.VerifyQuery(u))

	q.Set("shop", "other.myshopify.com")
	tampered := &url.URL{Path: "/", RawQuery: q.Encode()}
	assert.ErrorIs(t, v.VerifyQuery(tampered), domain.ErrInvalidSignature)
}
