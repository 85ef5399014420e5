package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/pkg/errors"
	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/services"
)

func TestRespondServiceErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := newTestLogger(t)

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("Product abc %w", apperrors.ErrNotFound), http.StatusNotFound},
		{"invalid argument", fmt.Errorf("%w: bad slots", apperrors.ErrInvalidArgument), http.StatusBadRequest},
		{"conflict", fmt.Errorf("%w: already finalized", apperrors.ErrConflict), http.StatusConflict},
		{"upload rejected", fmt.Errorf("%w: too small", services.ErrUploadRejected), http.StatusUnprocessableEntity},
		{"unknown", fmt.Errorf("disk exploded"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/boom", func(c *gin.Context) {
				respondServiceError(c, log, "test_op", tc.err)
			})

			req := httptest.NewRequest(http.MethodGet, "/boom", nil)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("unexpected status: got=%d want=%d body=%s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}
