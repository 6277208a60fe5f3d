package session

import (
	"context"
	"testing"

	"github.com/foodsupplychain/procurement/pkg/enums"
)

func TestNewFallsBackToUserID(t *testing.T) {
	sess := New(" tok ", "user-1", "", enums.UserRoleProcurement)
	if sess.SessionID != "user-1" {
		t.Fatalf("expected session id fallback, got %q", sess.SessionID)
	}
	if sess.Token != "tok" {
		t.Fatalf("expected trimmed token, got %q", sess.Token)
	}
	if !sess.Valid() {
		t.Fatalf("expected valid session")
	}
}

func TestValidRequiresTokenAndUser(t *testing.T) {
	if New("", "user-1", "s", enums.UserRoleProcurement).Valid() {
		t.Fatalf("missing token should be invalid")
	}
	if New("tok", "", "", enums.UserRoleProcurement).Valid() {
		t.Fatalf("missing user should be invalid")
	}
}

func TestContextRoundTrip(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Fatalf("expected no session on bare context")
	}
	want := New("tok", "user-1", "jti-1", enums.UserRoleVendor)
	got, ok := FromContext(WithContext(context.Background(), want))
	if !ok || got != want {
		t.Fatalf("expected %+v, got %+v (ok=%v)", want, got, ok)
	}
}
