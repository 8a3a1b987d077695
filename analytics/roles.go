package analytics

// Role is the in-match role assigned to one stat line. Exactly one role is
// assigned per record; classification is a pure function of the raw fields.
type Role string

const (
	RoleCarry   Role = "carry"
	RoleMid     Role = "mid"
	RoleOfflane Role = "offlane"
	RoleSupport Role = "support"
	RoleCore    Role = "core"
)

// Roles lists the full enumeration.
var Roles = []Role{RoleCarry, RoleMid, RoleOfflane, RoleSupport, RoleCore}

type roleRule struct {
	role  Role
	match func(gpm, kills, assists, deaths int) bool
}

// The rule order is load-bearing: the chain short-circuits on the first
// match, so a 600-GPM stat line with kills > assists is a carry, not mid.
var roleRules = []roleRule{
	{RoleCarry, func(gpm, k, a, d int) bool { return gpm > 500 }},
	{RoleSupport, func(gpm, k, a, d int) bool { return gpm < 350 && a > k }},
	{RoleMid, func(gpm, k, a, d int) bool { return gpm > 450 && gpm <= 550 && k > a }},
	{RoleOfflane, func(gpm, k, a, d int) bool { return gpm > 350 && gpm <= 500 && d < 8 }},
}

// ClassifyRole assigns a role from one stat line's gold rate and combat
// counts. Rules are evaluated top-down; no rule matching means core.
func ClassifyRole(gpm, kills, assists, deaths int) Role {
	for _, r := range roleRules {
		if r.match(gpm, kills, assists, deaths) {
			return r.role
		}
	}
	return RoleCore
}

// RoleConfidence is the share of per-match roles agreeing with the
// aggregate classification, in [0, 1]. Zero matches yields 0.
func RoleConfidence(perMatch []Role, aggregate Role) float64 {
	if len(perMatch) == 0 {
		return 0
	}
	agree := 0
	for _, r := range perMatch {
		if r == aggregate {
			agree++
		}
	}
	return float64(agree) / float64(len(perMatch))
}
