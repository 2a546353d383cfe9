package httpapi

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"
)

func TestJoinContexts_CancelsWhenEitherDone(t *testing.T) {
	a, ac := context.WithCancel(context.Background())
	defer ac()
	b, bc := context.WithCancel(context.Background())
	j, cancelJ := joinContexts(a, b)
	defer cancelJ()
	bc()
	select {
	case <-j.Done():
	case <-time.After(500 * time.Millisecond):
		t.Fatal("joined context did not cancel when second parent canceled")
	}
}

func TestRequestContext_ShutdownCancels(t *testing.T) {
	base, stop := context.WithCancel(context.Background())
	SetBaseContext(base)
	// nolint:staticcheck // SA1012: nil restores Background
	defer SetBaseContext(nil)

	r := httptest.NewRequest("GET", "/api/stats", nil)
	ctx, cancel := requestContext(r)
	defer cancel()
	if canceled(r) {
		t.Fatal("request reported canceled before shutdown")
	}
	stop()
	select {
	case <-ctx.Done():
	case <-time.After(500 * time.Millisecond):
		t.Fatal("request context survived shutdown")
	}
	if !canceled(r) {
		t.Fatal("canceled should report shutdown")
	}
}
