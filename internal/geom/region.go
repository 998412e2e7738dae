package geom

// Role tags what a region is inside the motor. Backend adapters map roles
// to engine groups; the material manager checks physics properties per role.
type Role string

const (
	RolePole Role = "pole"
	RoleSlot Role = "slot"
	RoleCore Role = "core"
	RoleAir  Role = "air"
)

// Region is one closed profile plus everything a backend needs to realize
// it: material name, winding circuit and turn count for slots, and the
// magnetization direction in degrees for poles.
type Region struct {
	Profile       Profile
	Role          Role
	Material      string
	Group         int
	Label         Point
	Circuit       string
	Turns         int
	Magnetization float64
}
