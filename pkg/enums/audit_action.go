package enums

// AuditAction is the localized verb recorded with each activity log entry.
// The French labels are displayed verbatim in the admin console.
type AuditAction string

const (
	AuditActionCreate   AuditAction = "Création"
	AuditActionUpdate   AuditAction = "Modification"
	AuditActionDelete   AuditAction = "Suppression"
	AuditActionValidate AuditAction = "Validation"
	AuditActionCancel   AuditAction = "Annulation"
	AuditActionBan      AuditAction = "Bannissement"
	AuditActionUnban    AuditAction = "Débannissement"
)

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionDelete,
		AuditActionValidate, AuditActionCancel, AuditActionBan, AuditActionUnban:
		return true
	}
	return false
}
