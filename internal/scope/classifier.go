// Package scope implements role-scoped query construction: classifying a
// principal's flat role strings into geographic category buckets, and turning
// those buckets into a storage filter that restricts list operations to the
// records the principal is allowed to see.
package scope

// AdminRole is the marker role that bypasses target-user authorization and
// the ownership fallback.
const AdminRole = "admin"

// ReferenceSets holds the closed-world enumerations of valid geographic role
// names. The sets are immutable configuration loaded once at startup; they
// are expected to be pairwise disjoint.
type ReferenceSets struct {
	Zones                       []string
	Districts                   []string
	AssemblyConstituencies      []string
	ParliamentaryConstituencies []string
}

// Bundle is the result of classifying a principal's roles. Each match set is
// the intersection of the principal's roles with the corresponding reference
// set. Bundles are recomputed per request and never cached.
type Bundle struct {
	Zones          []string
	Districts      []string
	Constituencies []string // assembly constituencies
	PCs            []string // parliamentary constituencies
	IsAdmin        bool

	// Unrecognized collects role strings that matched no reference set and
	// are not the admin marker. They are not an error; callers at the HTTP
	// boundary may log them.
	Unrecognized []string
}

// HasGeoRole reports whether any geographic category matched.
func (b Bundle) HasGeoRole() bool {
	return len(b.Zones) > 0 || len(b.Districts) > 0 || len(b.Constituencies) > 0 || len(b.PCs) > 0
}

// Classifier partitions role strings against indexed reference sets.
// Membership tests are O(1); the assembly constituency set alone has ~300
// entries, so linear scans are avoided. Classifier is immutable after
// construction and safe for concurrent use.
type Classifier struct {
	zones     map[string]struct{}
	districts map[string]struct{}
	acs       map[string]struct{}
	pcs       map[string]struct{}
}

// NewClassifier builds a classifier from the given reference sets.
func NewClassifier(ref ReferenceSets) *Classifier {
	return &Classifier{
		zones:     index(ref.Zones),
		districts: index(ref.Districts),
		acs:       index(ref.AssemblyConstituencies),
		pcs:       index(ref.ParliamentaryConstituencies),
	}
}

// Classify computes the match sets for the given roles. A role that appears
// in more than one reference set is assigned to every set it matches. Roles
// matching nothing are collected in Bundle.Unrecognized and otherwise
// ignored, so stale role assignments never fail a request.
func (c *Classifier) Classify(roles []string) Bundle {
	var b Bundle
	for _, role := range roles {
		matched := false
		if role == AdminRole {
			b.IsAdmin = true
			continue
		}
		if _, ok := c.zones[role]; ok {
			b.Zones = append(b.Zones, role)
			matched = true
		}
		if _, ok := c.districts[role]; ok {
			b.Districts = append(b.Districts, role)
			matched = true
		}
		if _, ok := c.acs[role]; ok {
			b.Constituencies = append(b.Constituencies, role)
			matched = true
		}
		if _, ok := c.pcs[role]; ok {
			b.PCs = append(b.PCs, role)
			matched = true
		}
		if !matched {
			b.Unrecognized = append(b.Unrecognized, role)
		}
	}
	return b
}

func index(names []string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}
