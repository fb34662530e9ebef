package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMustRegisterIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		MustRegister()
		MustRegister()
	})
}

func TestObserveHTTPRequest(t *testing.T) {
	before := testutil.CollectAndCount(HTTPRequestDuration)

	ObserveHTTPRequest(http.MethodPost, "/api/v1/transfers", http.StatusAccepted, 15*time.Millisecond)
	ObserveHTTPRequest(http.MethodPost, "/api/v1/transfers", http.StatusAccepted, 5*time.Millisecond)

	assert.Equal(t, before+1, testutil.CollectAndCount(HTTPRequestDuration))
}
