package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/errors"
	"github.com/onsi/gomega"
)

func TestChecker_Check(t *testing.T) {
	tests := []struct {
		name      string
		statuses  []int
		wantErr   bool
		wantCalls int32
	}{
		{
			name:      "should pass when the storefront answers",
			statuses:  []int{http.StatusOK},
			wantCalls: 1,
		},
		{
			name:      "should retry server errors",
			statuses:  []int{http.StatusServiceUnavailable, http.StatusOK},
			wantCalls: 2,
		},
		{
			name:      "should fail on client errors without retrying",
			statuses:  []int{http.StatusNotFound},
			wantErr:   true,
			wantCalls: 1,
		},
		{
			name:      "should fail once retries are exhausted",
			statuses:  []int{http.StatusBadGateway, http.StatusBadGateway, http.StatusBadGateway},
			wantErr:   true,
			wantCalls: 3,
		},
	}

	for _, testcase := range tests {
		tt := testcase
		t.Run(tt.name, func(t *testing.T) {
			g := gomega.NewWithT(t)
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.statuses[int(n)-1])
			}))
			defer server.Close()

			err := NewChecker(time.Second).Check(context.Background(), server.URL)

			if tt.wantErr {
				g.Expect(errors.HasCode(err, errors.ErrorPreflight)).To(gomega.BeTrue())
			} else {
				g.Expect(err).ToNot(gomega.HaveOccurred())
			}
			g.Expect(atomic.LoadInt32(&calls)).To(gomega.Equal(tt.wantCalls))
		})
	}
}

func TestChecker_Unreachable(t *testing.T) {
	g := gomega.NewWithT(t)
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	err := NewChecker(100 * time.Millisecond).Check(context.Background(), url)
	g.Expect(errors.HasCode(err, errors.ErrorPreflight)).To(gomega.BeTrue())
	g.Expect(err.Error()).To(gomega.ContainSubstring("is not reachable"))
}
