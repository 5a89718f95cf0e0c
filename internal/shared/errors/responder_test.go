package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, handler gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/v1/orders/:orderId", handler)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/orders/o-1", nil))
	return rec
}

func TestChainedResponder_UsesFirstMatchingMapper(t *testing.T) {
	sentinel := errors.New("not here")
	responder := NewChainedResponder("", func(err error) (ProblemDetail, bool) {
		if errors.Is(err, sentinel) {
			return NewNotFoundProblem("order", "o-1"), true
		}
		return ProblemDetail{}, false
	})

	rec := serve(t, func(c *gin.Context) { responder.RespondError(c, sentinel) })
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))

	var body ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, TypeNotFound, body.Type)
	require.Equal(t, "/v1/orders/o-1", body.Instance)
	require.Equal(t, "order", body.Extensions["resourceType"])
}

func TestResponder_UnknownErrorsHideDetail(t *testing.T) {
	rec := serve(t, func(c *gin.Context) { DefaultResponder.RespondError(c, errors.New("pq: connection refused")) })
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "connection refused")
}

func TestWithExtension_DoesNotMutateTemplate(t *testing.T) {
	_ = ErrInsufficientStock.WithExtension("productId", 1)
	require.Nil(t, ErrInsufficientStock.Extensions)
}
