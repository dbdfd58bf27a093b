package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordResolution(t *testing.T) {
	before := testutil.ToFloat64(resolutions.WithLabelValues("realdebrid", "movie", "partial"))
	RecordResolution("realdebrid", "movie", "partial", 150*time.Millisecond, 4)
	assert.Equal(t, before+1, testutil.ToFloat64(resolutions.WithLabelValues("realdebrid", "movie", "partial")))
}

func TestRecordPartialFailure(t *testing.T) {
	before := testutil.ToFloat64(partialFailures.WithLabelValues("torbox", "expanding"))
	RecordPartialFailure("torbox", "expanding")
	RecordPartialFailure("torbox", "expanding")
	assert.Equal(t, before+2, testutil.ToFloat64(partialFailures.WithLabelValues("torbox", "expanding")))
}

func TestObserveOutboundRequest(t *testing.T) {
	before := testutil.ToFloat64(outboundRequests.WithLabelValues("cinemeta", "503"))
	ObserveOutboundRequest("cinemeta", "503")
	assert.Equal(t, before+1, testutil.ToFloat64(outboundRequests.WithLabelValues("cinemeta", "503")))
}
