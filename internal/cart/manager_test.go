package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/oakmart/storefront-backend/internal/session"
)

func TestManagerReturnsSameReconcilerPerUser(t *testing.T) {
	manager, err := NewManager(&stubCartStore{}, stubResolver{}, session.NewHolder(), testLogger())
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	userID := uuid.New()
	first := manager.ForUser(userID)
	second := manager.ForUser(userID)
	if first != second {
		t.Fatal("expected reconciler reuse for the same user")
	}

	other := manager.ForUser(uuid.New())
	if other == first {
		t.Fatal("expected distinct reconcilers per user")
	}
}

func TestManagerAnonymousShareSingleReconciler(t *testing.T) {
	manager, err := NewManager(&stubCartStore{}, stubResolver{}, session.NewHolder(), testLogger())
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	anon := manager.ForUser(uuid.Nil)
	if anon != manager.ForSession(nil) {
		t.Fatal("expected shared anonymous reconciler")
	}
	if anon != manager.ForSession(&session.Session{}) {
		t.Fatal("expected zero-value session to map to anonymous reconciler")
	}
}

func TestManagerDropsMirrorOnSignOut(t *testing.T) {
	holder := session.NewHolder()
	userID := uuid.New()

	manager, err := NewManager(&stubCartStore{}, stubResolver{}, holder, testLogger())
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	holder.Set(&session.Session{UserID: userID})
	before := manager.ForUser(userID)
	before.Load(context.Background())

	holder.Clear()

	after := manager.ForUser(userID)
	if after == before {
		t.Fatal("expected sign-out to drop the user's reconciler")
	}
}

func TestManagerKeepsOtherUsersMirrorOnStaleSignOut(t *testing.T) {
	holder := session.NewHolder()
	userA := uuid.New()
	userB := uuid.New()

	manager, err := NewManager(&stubCartStore{}, stubResolver{}, holder, testLogger())
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	holder.Set(&session.Session{UserID: userA, AccessID: "access-a"})
	reconcilerA := manager.ForUser(userA)

	// B signing in replaces A as the current session and drops A's mirror.
	holder.Set(&session.Session{UserID: userB, AccessID: "access-b"})
	reconcilerB := manager.ForUser(userB)
	if manager.ForUser(userA) == reconcilerA {
		t.Fatal("expected user switch to drop the previous user's reconciler")
	}

	// A's sign-out arrives after B took over; B's mirror must survive.
	holder.ClearAccess("access-a")
	if manager.ForUser(userB) != reconcilerB {
		t.Fatal("expected stale sign-out to leave the current user's reconciler")
	}
}

func TestManagerDropIsIdempotent(t *testing.T) {
	manager, err := NewManager(&stubCartStore{}, stubResolver{}, session.NewHolder(), testLogger())
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	userID := uuid.New()
	manager.ForUser(userID)
	manager.Drop(userID)
	manager.Drop(userID)

	if manager.ForUser(userID) == nil {
		t.Fatal("expected fresh reconciler after drop")
	}
}
