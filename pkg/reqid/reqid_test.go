package reqid_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shashiranjanraj/shirtshop/pkg/reqid"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware(t *testing.T) {
	var seen string
	h := reqid.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = reqid.FromCtx(r.Context())
	}))

	cases := []struct {
		name, upstream string
		kept           bool
	}{
		{"none", "", false},
		{"well formed", "edge-7f3a.01", true},
		{"too long", strings.Repeat("a", 65), false},
		{"log injection", "abc\nlevel=ERROR", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.upstream != "" {
				req.Header.Set(reqid.Header, tc.upstream)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.NotEmpty(t, seen)
			assert.Equal(t, seen, rec.Header().Get(reqid.Header))
			assert.Equal(t, tc.kept, seen == tc.upstream)
		})
	}
}
