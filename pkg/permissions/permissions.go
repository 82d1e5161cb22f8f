package permissions

import "fmt"

// Category names a gated resource family of the back office.
type Category string

const (
	CategoryVehicles      Category = "vehicles"
	CategoryOrders        Category = "orders"
	CategoryUsers         Category = "users"
	CategoryModeration    Category = "moderation"
	CategoryAnnouncements Category = "announcements"
	CategoryLogs          Category = "logs"
)

// Action names a single toggleable operation within a category. There is no
// hierarchy or wildcard matching; every action is independently granted.
type Action string

const (
	ActionView     Action = "view"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionValidate Action = "validate"
	ActionCancel   Action = "cancel"
	ActionBan      Action = "ban"
	ActionUnban    Action = "unban"
)

// VehiclePerms gates the catalog (vehicles, categories, particularities).
type VehiclePerms struct {
	View   bool `json:"view"`
	Create bool `json:"create"`
	Update bool `json:"update"`
	Delete bool `json:"delete"`
}

// OrderPerms gates order management. Validate and Cancel map to the two
// terminal status transitions.
type OrderPerms struct {
	View     bool `json:"view"`
	Validate bool `json:"validate"`
	Cancel   bool `json:"cancel"`
	Delete   bool `json:"delete"`
}

type UserPerms struct {
	View   bool `json:"view"`
	Create bool `json:"create"`
	Update bool `json:"update"`
	Delete bool `json:"delete"`
}

type ModerationPerms struct {
	View  bool `json:"view"`
	Ban   bool `json:"ban"`
	Unban bool `json:"unban"`
}

type AnnouncementPerms struct {
	View   bool `json:"view"`
	Update bool `json:"update"`
}

type LogPerms struct {
	View bool `json:"view"`
}

// Set is the nested boolean permission record attached to every admin user.
// It is a hand-maintained configuration struct, not a policy engine.
type Set struct {
	Vehicles      VehiclePerms      `json:"vehicles"`
	Orders        OrderPerms        `json:"orders"`
	Users         UserPerms         `json:"users"`
	Moderation    ModerationPerms   `json:"moderation"`
	Announcements AnnouncementPerms `json:"announcements"`
	Logs          LogPerms          `json:"logs"`
}

// Full grants everything. Used when seeding the first admin account.
func Full() Set {
	return Set{
		Vehicles:      VehiclePerms{View: true, Create: true, Update: true, Delete: true},
		Orders:        OrderPerms{View: true, Validate: true, Cancel: true, Delete: true},
		Users:         UserPerms{View: true, Create: true, Update: true, Delete: true},
		Moderation:    ModerationPerms{View: true, Ban: true, Unban: true},
		Announcements: AnnouncementPerms{View: true, Update: true},
		Logs:          LogPerms{View: true},
	}
}

// ReadOnly grants the view action of every category and nothing else.
func ReadOnly() Set {
	return Set{
		Vehicles:      VehiclePerms{View: true},
		Orders:        OrderPerms{View: true},
		Users:         UserPerms{View: true},
		Moderation:    ModerationPerms{View: true},
		Announcements: AnnouncementPerms{View: true},
		Logs:          LogPerms{View: true},
	}
}

// Allows resolves a (category, action) pair. The second return value reports
// whether the category itself is known; callers use it to distinguish the
// generic "no permissions for this section" denial from an action denial.
func (s Set) Allows(category Category, action Action) (allowed bool, known bool) {
	switch category {
	case CategoryVehicles:
		switch action {
		case ActionView:
			return s.Vehicles.View, true
		case ActionCreate:
			return s.Vehicles.Create, true
		case ActionUpdate:
			return s.Vehicles.Update, true
		case ActionDelete:
			return s.Vehicles.Delete, true
		}
		return false, true
	case CategoryOrders:
		switch action {
		case ActionView:
			return s.Orders.View, true
		case ActionValidate:
			return s.Orders.Validate, true
		case ActionCancel:
			return s.Orders.Cancel, true
		case ActionDelete:
			return s.Orders.Delete, true
		}
		return false, true
	case CategoryUsers:
		switch action {
		case ActionView:
			return s.Users.View, true
		case ActionCreate:
			return s.Users.Create, true
		case ActionUpdate:
			return s.Users.Update, true
		case ActionDelete:
			return s.Users.Delete, true
		}
		return false, true
	case CategoryModeration:
		switch action {
		case ActionView:
			return s.Moderation.View, true
		case ActionBan:
			return s.Moderation.Ban, true
		case ActionUnban:
			return s.Moderation.Unban, true
		}
		return false, true
	case CategoryAnnouncements:
		switch action {
		case ActionView:
			return s.Announcements.View, true
		case ActionUpdate:
			return s.Announcements.Update, true
		}
		return false, true
	case CategoryLogs:
		if action == ActionView {
			return s.Logs.View, true
		}
		return false, true
	}
	return false, false
}

var actionLabels = map[Action]string{
	ActionView:     "consulter",
	ActionCreate:   "créer",
	ActionUpdate:   "modifier",
	ActionDelete:   "supprimer",
	ActionValidate: "valider",
	ActionCancel:   "annuler",
	ActionBan:      "bannir dans",
	ActionUnban:    "débannir dans",
}

var categoryLabels = map[Category]string{
	CategoryVehicles:      "les véhicules",
	CategoryOrders:        "les commandes",
	CategoryUsers:         "les utilisateurs",
	CategoryModeration:    "la modération",
	CategoryAnnouncements: "les annonces",
	CategoryLogs:          "les journaux d'activité",
}

// GenericDenialMessage is returned when the category itself is unknown.
const GenericDenialMessage = "🚫 Vous n'avez aucune permission pour cette section"

// DenialMessage renders the translated, action-specific denial shown to admins.
func DenialMessage(category Category, action Action) string {
	actionLabel, ok := actionLabels[action]
	if !ok {
		return GenericDenialMessage
	}
	categoryLabel, ok := categoryLabels[category]
	if !ok {
		return GenericDenialMessage
	}
	return fmt.Sprintf("🚫 Vous n'avez pas la permission de %s %s", actionLabel, categoryLabel)
}
