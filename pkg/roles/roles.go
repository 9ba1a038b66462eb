// Package roles defines the fixed role vocabulary used to gate access to
// pages and API routes.
package roles

// A Role is one of the institution's access roles. A user may hold several
// at once.
type Role string

// All known roles. Role strings arriving from token claims that are not in
// this vocabulary are discarded at the verification boundary.
const (
	Admin       Role = "ADMIN"
	Coordenador Role = "COORDENADOR"
	Professor   Role = "PROFESSOR"
	Aluno       Role = "ALUNO"
)

var known = map[Role]struct{}{
	Admin:       {},
	Coordenador: {},
	Professor:   {},
	Aluno:       {},
}

// Known reports whether s is a recognized role string.
func Known(s string) bool {
	_, ok := known[Role(s)]
	return ok
}

// Parse converts raw role strings into Roles, dropping unrecognized values.
// The returned slice preserves the claim order.
func Parse(raw []string) []Role {
	var rs []Role
	for _, s := range raw {
		if Known(s) {
			rs = append(rs, Role(s))
		}
	}
	return rs
}

// Strings converts roles back to their string form.
func Strings(rs []Role) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}
	return out
}

// Intersects reports whether have and want share at least one role. An empty
// want means no role is required.
func Intersects(have, want []Role) bool {
	if len(want) == 0 {
		return true
	}
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
