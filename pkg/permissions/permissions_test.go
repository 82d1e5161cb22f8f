package permissions

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAllowsMatrix(t *testing.T) {
	set := Set{
		Vehicles:   VehiclePerms{View: true, Create: true},
		Orders:     OrderPerms{View: true, Validate: true},
		Moderation: ModerationPerms{Ban: true},
	}

	tests := []struct {
		category Category
		action   Action
		allowed  bool
		known    bool
	}{
		{CategoryVehicles, ActionView, true, true},
		{CategoryVehicles, ActionCreate, true, true},
		{CategoryVehicles, ActionDelete, false, true},
		{CategoryOrders, ActionValidate, true, true},
		{CategoryOrders, ActionCancel, false, true},
		{CategoryOrders, ActionDelete, false, true},
		{CategoryModeration, ActionBan, true, true},
		{CategoryModeration, ActionUnban, false, true},
		{CategoryUsers, ActionCreate, false, true},
		{CategoryAnnouncements, ActionUpdate, false, true},
		{CategoryLogs, ActionView, false, true},
		{Category("garage"), ActionView, false, false},
		{CategoryOrders, Action("teleport"), false, true},
	}

	for _, tt := range tests {
		allowed, known := set.Allows(tt.category, tt.action)
		if allowed != tt.allowed || known != tt.known {
			t.Fatalf("%s.%s: got (%v,%v) want (%v,%v)", tt.category, tt.action, allowed, known, tt.allowed, tt.known)
		}
	}
}

func TestFullGrantsEverything(t *testing.T) {
	full := Full()
	pairs := []struct {
		category Category
		action   Action
	}{
		{CategoryVehicles, ActionView}, {CategoryVehicles, ActionCreate},
		{CategoryVehicles, ActionUpdate}, {CategoryVehicles, ActionDelete},
		{CategoryOrders, ActionView}, {CategoryOrders, ActionValidate},
		{CategoryOrders, ActionCancel}, {CategoryOrders, ActionDelete},
		{CategoryUsers, ActionView}, {CategoryUsers, ActionCreate},
		{CategoryUsers, ActionUpdate}, {CategoryUsers, ActionDelete},
		{CategoryModeration, ActionView}, {CategoryModeration, ActionBan},
		{CategoryModeration, ActionUnban},
		{CategoryAnnouncements, ActionView}, {CategoryAnnouncements, ActionUpdate},
		{CategoryLogs, ActionView},
	}
	for _, p := range pairs {
		if allowed, _ := full.Allows(p.category, p.action); !allowed {
			t.Fatalf("Full() should allow %s.%s", p.category, p.action)
		}
	}
}

func TestReadOnlyDeniesMutations(t *testing.T) {
	ro := ReadOnly()
	if allowed, _ := ro.Allows(CategoryVehicles, ActionView); !allowed {
		t.Fatal("ReadOnly() should allow vehicles.view")
	}
	for _, pair := range [][2]string{
		{"vehicles", "create"}, {"orders", "validate"}, {"orders", "cancel"},
		{"users", "delete"}, {"moderation", "ban"}, {"announcements", "update"},
	} {
		if allowed, _ := ro.Allows(Category(pair[0]), Action(pair[1])); allowed {
			t.Fatalf("ReadOnly() should deny %s.%s", pair[0], pair[1])
		}
	}
}

func TestDenialMessages(t *testing.T) {
	msg := DenialMessage(CategoryOrders, ActionValidate)
	if !strings.Contains(msg, "valider") || !strings.Contains(msg, "les commandes") {
		t.Fatalf("unexpected denial message %q", msg)
	}
	if !strings.HasPrefix(msg, "🚫") {
		t.Fatalf("denial message should carry the emoji prefix, got %q", msg)
	}
	if DenialMessage(Category("garage"), ActionView) != GenericDenialMessage {
		t.Fatal("unknown category should fall back to the generic message")
	}
}

func TestSetRoundTripsThroughJSON(t *testing.T) {
	original := Full()
	original.Orders.Cancel = false

	raw, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Set
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != original {
		t.Fatalf("round trip mismatch: %+v vs %+v", decoded, original)
	}
	if allowed, _ := decoded.Allows(CategoryOrders, ActionCancel); allowed {
		t.Fatal("orders.cancel should stay revoked after round trip")
	}
}
