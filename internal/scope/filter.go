package scope

// Filter is the storage constraint derived from a classified role bundle.
// Every populated field is combined with logical AND by the storage layer:
// State as an equality match, the four category slices as set-membership
// matches, OwnerID as an equality match. A zero Filter matches everything
// and is only ever produced for admins.
type Filter struct {
	State          string
	Zones          []string
	Districts      []string
	Constituencies []string
	PCs            []string
	OwnerID        string
}

// IsUnscoped reports whether the filter carries no constraint at all.
func (f Filter) IsUnscoped() bool {
	return f.State == "" && f.OwnerID == "" &&
		len(f.Zones) == 0 && len(f.Districts) == 0 &&
		len(f.Constituencies) == 0 && len(f.PCs) == 0
}

// Authorize decides whether a principal may request records scoped to
// targetUserID. It must run before any filter is built or storage touched.
// Admins may target anyone; non-admins may only omit the target or name
// themselves.
func Authorize(b Bundle, targetUserID, requesterID string) bool {
	if b.IsAdmin {
		return true
	}
	if targetUserID == "" {
		return true
	}
	return targetUserID == requesterID
}

// Builder constructs scoped filters. It owns the allow-list of home states
// that participate in top-level state scoping; principals homed elsewhere
// get no state constraint, so isolation for those regions comes entirely
// from category and ownership constraints.
type Builder struct {
	homeStates map[string]struct{}
}

// NewBuilder returns a Builder recognizing the given home states.
func NewBuilder(homeStates []string) *Builder {
	return &Builder{homeStates: index(homeStates)}
}

// Build produces the scoped filter for an authorized request.
//
// All non-empty category constraints compose with AND. A principal holding
// both a zone role and a district role is narrowed to records matching both;
// this is deliberately the most restrictive composition and applies uniformly
// to every collection.
//
// Non-admin principals with no recognized geographic role fall back to
// ownership scoping: they see only their own records, never the whole
// collection. Admins never receive the ownership fallback, but keep any
// category constraints their roles produce.
func (bl *Builder) Build(b Bundle, homeState, targetUserID, requesterID string) Filter {
	var f Filter
	if _, ok := bl.homeStates[homeState]; ok {
		f.State = homeState
	}
	f.Zones = b.Zones
	f.Districts = b.Districts
	f.Constituencies = b.Constituencies
	f.PCs = b.PCs

	if !b.IsAdmin && !b.HasGeoRole() {
		owner := targetUserID
		if owner == "" {
			owner = requesterID
		}
		f.OwnerID = owner
	}
	return f
}
