package auth

// PermissionName identifies a catalog-defined capability. Using a distinct
// type keeps permission checks out of the realm of free-form strings.
type PermissionName string

const (
	PermReadOwnData     PermissionName = "PERMISSION_READ_OWN_DATA"
	PermManageUsers     PermissionName = "PERMISSION_MANAGE_USERS"
	PermDeleteVendor    PermissionName = "PERMISSION_DELETE_VENDOR"
	PermDeleteWorkOrder PermissionName = "PERMISSION_DELETE_WORK_ORDER"
	PermDeleteProperty  PermissionName = "PERMISSION_DELETE_PROPERTY"
)

// Catalog returns every permission the service knows about. The catalog rows
// are ensured to exist in the database at startup.
func Catalog() []PermissionName {
	return []PermissionName{
		PermReadOwnData,
		PermManageUsers,
		PermDeleteVendor,
		PermDeleteWorkOrder,
		PermDeleteProperty,
	}
}
