package utils

import "github.com/Portoviejo360-pucesm/alquileres-hub-pucem/models"

// Action is a capability a role may or may not hold.
type Action string

const (
	ActionPropertyPublish    Action = "property:publish"
	ActionReservationCreate  Action = "reservation:create"
	ActionReservationDecide  Action = "reservation:decide"
	ActionContractGenerate   Action = "contract:generate"
	ActionIncidentReport     Action = "incident:report"
	ActionIncidentManage     Action = "incident:manage"
	ActionVerificationReview Action = "verification:review"
)

// rolePermissions is the single place role capabilities are declared;
// handlers consult it through Can/RequirePermission instead of comparing
// role strings inline.
var rolePermissions = map[string][]Action{
	models.RoleTenant: {
		ActionReservationCreate,
		ActionContractGenerate,
		ActionIncidentReport,
	},
	models.RoleLandlord: {
		ActionPropertyPublish,
		ActionReservationDecide,
		ActionIncidentManage,
	},
	models.RoleAdmin: {
		ActionPropertyPublish,
		ActionReservationCreate,
		ActionReservationDecide,
		ActionContractGenerate,
		ActionIncidentReport,
		ActionIncidentManage,
		ActionVerificationReview,
	},
}

// Can reports whether role holds the given capability.
func Can(role string, action Action) bool {
	for _, a := range rolePermissions[role] {
		if a == action {
			return true
		}
	}
	return false
}
