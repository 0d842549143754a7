//go:build !integration

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
)

func TestCheckoutCounters(t *testing.T) {
	before := testutil.ToFloat64(checkoutsTotal.WithLabelValues("basic", "custom", "redirected"))
	IncCheckout(" Basic ", "custom", "REDIRECTED")
	after := testutil.ToFloat64(checkoutsTotal.WithLabelValues("basic", "custom", "redirected"))
	if after-before != 1 {
		t.Fatalf("expected normalized labels to hit the same series, delta=%v", after-before)
	}

	AddCustomerDonation(decimal.NewFromInt(30))
	if got := testutil.ToFloat64(customerDonationsTotal); got < 30 {
		t.Errorf("expected donations counter >= 30, got %v", got)
	}
}

func TestProcessorAndFlushCounters(t *testing.T) {
	ObserveProcessorCall("pay_link", time.Now(), errors.New("boom"))
	if got := testutil.ToFloat64(processorRequests.WithLabelValues("pay_link", "fail")); got < 1 {
		t.Errorf("expected failed pay_link call to be counted, got %v", got)
	}

	IncCacheFlush("pages", nil)
	if got := testutil.ToFloat64(cacheFlushesTotal.WithLabelValues("pages", "ok")); got < 1 {
		t.Errorf("expected flush to be counted, got %v", got)
	}
}

func TestMustRegister_Idempotent(t *testing.T) {
	MustRegister()
	MustRegister()
}

func TestJobAndHookCounters(t *testing.T) {
	before := testutil.ToFloat64(jobRunsTotal.WithLabelValues("pool_stats", "fail"))
	IncJobRun("Pool_Stats", errors.New("down"))
	if got := testutil.ToFloat64(jobRunsTotal.WithLabelValues("pool_stats", "fail")); got-before != 1 {
		t.Errorf("expected one failed run, delta=%v", got-before)
	}

	IncHookRateLimited("clean")
	if got := testutil.ToFloat64(hookRateLimitedTotal.WithLabelValues("clean")); got < 1 {
		t.Errorf("expected rate limited hook to be counted, got %v", got)
	}
}
