package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/99minutos/user-directory/internal/core/ports"
)

func TestRecorder(t *testing.T) {
	r := Recorder{}

	before := testutil.ToFloat64(LoginsTotal.WithLabelValues(ports.OutcomeIncorrectPassword))
	r.Login(ports.OutcomeIncorrectPassword)
	if got := testutil.ToFloat64(LoginsTotal.WithLabelValues(ports.OutcomeIncorrectPassword)); got != before+1 {
		t.Fatalf("expected login counter to increase by 1, got %v -> %v", before, got)
	}

	errBefore := testutil.ToFloat64(CacheLoadsTotal.WithLabelValues("error"))
	r.CacheLoad(errors.New("down"))
	if got := testutil.ToFloat64(CacheLoadsTotal.WithLabelValues("error")); got != errBefore+1 {
		t.Fatalf("expected error load counter to increase by 1")
	}

	r.CacheSize(7)
	if got := testutil.ToFloat64(CacheRecords); got != 7 {
		t.Fatalf("expected cache gauge 7, got %v", got)
	}

	r.Signup(ports.OutcomeUserExists)
	r.RemoteCall(ports.OpCreate, 10*time.Millisecond)
	if n := testutil.CollectAndCount(RemoteCallDuration); n == 0 {
		t.Fatalf("expected remote call histogram to be collected")
	}
}
