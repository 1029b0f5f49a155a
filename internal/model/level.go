package model

// PermissionLevel is the authorization tier assigned to an account.
// Levels are compared by equality only — Admin does NOT satisfy a
// Trusted requirement. The tiers are deliberately non-hierarchical.
type PermissionLevel int

const (
	Untrusted PermissionLevel = 0
	Trusted   PermissionLevel = 1
	Admin     PermissionLevel = 2
)

func (l PermissionLevel) String() string {
	switch l {
	case Untrusted:
		return "untrusted"
	case Trusted:
		return "trusted"
	case Admin:
		return "admin"
	default:
		return "unknown"
	}
}

// LevelFromString parses the wire form of a permission level.
func LevelFromString(s string) (PermissionLevel, bool) {
	switch s {
	case "untrusted":
		return Untrusted, true
	case "trusted":
		return Trusted, true
	case "admin":
		return Admin, true
	default:
		return Untrusted, false
	}
}

// TrustPolicy is the global switch controlling which relay targets are
// acceptable: only accounts whitelisted as Trusted, or any account.
type TrustPolicy string

const (
	TrustedOnly TrustPolicy = "trusted"
	TrustAll    TrustPolicy = "all"
)

// PolicyFromString parses the wire form of a trust policy.
func PolicyFromString(s string) (TrustPolicy, bool) {
	switch TrustPolicy(s) {
	case TrustedOnly:
		return TrustedOnly, true
	case TrustAll:
		return TrustAll, true
	default:
		return "", false
	}
}
