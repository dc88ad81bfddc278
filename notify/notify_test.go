package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMSNotifierSendsForm(t *testing.T) {
	var gotKey, gotTo, gotMessage, gotUser string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotKey = r.Header.Get("apiKey")
		gotUser = r.PostForm.Get("username")
		gotTo = r.PostForm.Get("to")
		gotMessage = r.PostForm.Get("message")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"SMSMessageData":{"Message":"Sent to 1/1"}}`))
	}))
	defer srv.Close()

	n := NewSMSNotifier(srv.URL, "sandbox", "key-1")
	err := n.SendSMS(context.Background(), "+821012345678", PaymentConfirmed("Kim", 12, 50000))
	require.NoError(t, err)

	assert.Equal(t, "key-1", gotKey)
	assert.Equal(t, "sandbox", gotUser)
	assert.Equal(t, "+821012345678", gotTo)
	assert.Equal(t, "Hi Kim, payment of 50000 KRW for order #12 is confirmed.", gotMessage)
}

func TestSMSNotifierProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("The supplied authentication is invalid"))
	}))
	defer srv.Close()

	err := NewSMSNotifier(srv.URL, "sandbox", "bad").SendSMS(context.Background(), "+82100", "hi")
	assert.ErrorContains(t, err, "provider returned 401")
}

func TestNopNotifier(t *testing.T) {
	assert.NoError(t, Nop{}.SendSMS(context.Background(), "+82100", "hi"))
}
