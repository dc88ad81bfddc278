package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/judyrop/storefront/apperr"
	"github.com/judyrop/storefront/services"
)

func contextFor(t *testing.T, target string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		query   string
		want    services.Page
		wantErr bool
	}{
		{query: "", want: services.Page{Page: 1, Limit: 20}},
		{query: "page=3&limit=5", want: services.Page{Page: 3, Limit: 5}},
		{query: "limit=100", want: services.Page{Page: 1, Limit: 100}},
		{query: "page=0", wantErr: true},
		{query: "page=-1", wantErr: true},
		{query: "page=two", wantErr: true},
		{query: "page=", wantErr: true},
		{query: "limit=101", wantErr: true},
		{query: "limit=1.5", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			page, err := parsePage(contextFor(t, "/items?"+tt.query), 20)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, http.StatusBadRequest, apperr.StatusOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, page)
		})
	}
}

func TestParseDateRange(t *testing.T) {
	r, err := parseDateRange(contextFor(t, "/orders?startDate=2024-03-01&endDate=2024-03-31"))
	require.NoError(t, err)
	require.NotNil(t, r.Start)
	require.NotNil(t, r.End)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *r.Start)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), *r.End)

	r, err = parseDateRange(contextFor(t, "/orders"))
	require.NoError(t, err)
	assert.Nil(t, r.Start)
	assert.Nil(t, r.End)

	for _, q := range []string{"startDate=01-03-2024", "endDate=2024-02-30", "startDate=2024-03-02&endDate=2024-03-01"} {
		_, err := parseDateRange(contextFor(t, "/orders?"+q))
		assert.Equal(t, http.StatusBadRequest, apperr.StatusOf(err), q)
	}
}

func TestParseID(t *testing.T) {
	c := contextFor(t, "/products/7")
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	id, err := parseID(c, "id")
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)

	for _, raw := range []string{"0", "-3", "abc", ""} {
		c.Params = gin.Params{{Key: "id", Value: raw}}
		_, err := parseID(c, "id")
		assert.Equal(t, http.StatusBadRequest, apperr.StatusOf(err), raw)
	}
}
