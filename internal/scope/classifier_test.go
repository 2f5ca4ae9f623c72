package scope

import (
	"math/rand"
	"testing"
)

func testClassifier() *Classifier {
	return NewClassifier(ReferenceSets{
		Zones:                       []string{"Mumbai", "Konkan", "Marathwada"},
		Districts:                   []string{"Pune", "Thane", "Nagpur"},
		AssemblyConstituencies:      []string{"148-Thane", "210-Kothrud", "187-Colaba"},
		ParliamentaryConstituencies: []string{"34-Pune", "25-Thane"},
	})
}

func TestClassifyBuckets(t *testing.T) {
	c := testClassifier()

	tests := []struct {
		name    string
		roles   []string
		zones   int
		dists   int
		acs     int
		pcs     int
		admin   bool
		unknown int
	}{
		{"empty", nil, 0, 0, 0, 0, false, 0},
		{"admin only", []string{"admin"}, 0, 0, 0, 0, true, 0},
		{"single zone", []string{"Mumbai"}, 1, 0, 0, 0, false, 0},
		{"zone and district", []string{"Mumbai", "Pune"}, 1, 1, 0, 0, false, 0},
		{"all categories", []string{"Konkan", "Nagpur", "210-Kothrud", "34-Pune"}, 1, 1, 1, 1, false, 0},
		{"admin with zone", []string{"admin", "Mumbai"}, 1, 0, 0, 0, true, 0},
		{"legacy roles ignored", []string{"user", "mod", "state"}, 0, 0, 0, 0, false, 3},
		{"mixed known and unknown", []string{"Mumbai", "user"}, 1, 0, 0, 0, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := c.Classify(tt.roles)
			if len(b.Zones) != tt.zones {
				t.Errorf("zones: expected %d, got %d", tt.zones, len(b.Zones))
			}
			if len(b.Districts) != tt.dists {
				t.Errorf("districts: expected %d, got %d", tt.dists, len(b.Districts))
			}
			if len(b.Constituencies) != tt.acs {
				t.Errorf("constituencies: expected %d, got %d", tt.acs, len(b.Constituencies))
			}
			if len(b.PCs) != tt.pcs {
				t.Errorf("pcs: expected %d, got %d", tt.pcs, len(b.PCs))
			}
			if b.IsAdmin != tt.admin {
				t.Errorf("isAdmin: expected %v, got %v", tt.admin, b.IsAdmin)
			}
			if len(b.Unrecognized) != tt.unknown {
				t.Errorf("unrecognized: expected %d, got %d", tt.unknown, len(b.Unrecognized))
			}
		})
	}
}

func TestClassifyPreservesRoleValues(t *testing.T) {
	c := testClassifier()
	b := c.Classify([]string{"Mumbai", "Pune", "148-Thane", "25-Thane"})

	if len(b.Zones) != 1 || b.Zones[0] != "Mumbai" {
		t.Errorf("expected zone 'Mumbai', got %v", b.Zones)
	}
	if len(b.Districts) != 1 || b.Districts[0] != "Pune" {
		t.Errorf("expected district 'Pune', got %v", b.Districts)
	}
	if len(b.Constituencies) != 1 || b.Constituencies[0] != "148-Thane" {
		t.Errorf("expected constituency '148-Thane', got %v", b.Constituencies)
	}
	if len(b.PCs) != 1 || b.PCs[0] != "25-Thane" {
		t.Errorf("expected pc '25-Thane', got %v", b.PCs)
	}
}

// A name appearing in two reference sets lands in both buckets rather than
// crashing or picking one arbitrarily.
func TestClassifyOverlappingReferenceSets(t *testing.T) {
	c := NewClassifier(ReferenceSets{
		Zones:     []string{"Mumbai"},
		Districts: []string{"Mumbai"},
	})

	b := c.Classify([]string{"Mumbai"})
	if len(b.Zones) != 1 || len(b.Districts) != 1 {
		t.Errorf("expected role in both buckets, got zones=%v districts=%v", b.Zones, b.Districts)
	}
	if len(b.Unrecognized) != 0 {
		t.Errorf("expected no unrecognized roles, got %v", b.Unrecognized)
	}
}

// Match sets stay pairwise disjoint for random role sets as long as the
// reference sets are disjoint.
func TestClassifyDisjointness(t *testing.T) {
	c := NewClassifier(Maharashtra())
	ref := Maharashtra()

	pool := make([]string, 0, 400)
	pool = append(pool, ref.Zones...)
	pool = append(pool, ref.Districts...)
	pool = append(pool, ref.AssemblyConstituencies...)
	pool = append(pool, ref.ParliamentaryConstituencies...)
	pool = append(pool, "admin", "user", "mod", "stale-role")

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		n := rng.Intn(10)
		roles := make([]string, 0, n)
		seen := make(map[string]bool)
		for len(roles) < n {
			r := pool[rng.Intn(len(pool))]
			if !seen[r] {
				seen[r] = true
				roles = append(roles, r)
			}
		}

		b := c.Classify(roles)
		buckets := map[string][]string{
			"zone":         b.Zones,
			"district":     b.Districts,
			"constituency": b.Constituencies,
			"pc":           b.PCs,
		}
		members := make(map[string]string)
		for name, bucket := range buckets {
			for _, role := range bucket {
				if prev, ok := members[role]; ok {
					t.Fatalf("role %q in both %s and %s buckets (roles=%v)", role, prev, name, roles)
				}
				members[role] = name
			}
		}
	}
}

// Adding a recognized role never shrinks any match set.
func TestClassifyMonotonicity(t *testing.T) {
	c := NewClassifier(Maharashtra())
	ref := Maharashtra()

	base := []string{"Mumbai", "Pune"}
	before := c.Classify(base)

	additions := []string{
		ref.Zones[0],
		ref.Districts[5],
		ref.AssemblyConstituencies[100],
		ref.ParliamentaryConstituencies[10],
	}

	for _, add := range additions {
		after := c.Classify(append(append([]string{}, base...), add))
		if len(after.Zones) < len(before.Zones) ||
			len(after.Districts) < len(before.Districts) ||
			len(after.Constituencies) < len(before.Constituencies) ||
			len(after.PCs) < len(before.PCs) {
			t.Errorf("adding %q shrank a match set: before=%+v after=%+v", add, before, after)
		}
	}
}

func TestMaharashtraReferenceSets(t *testing.T) {
	ref := Maharashtra()

	if len(ref.Zones) != 8 {
		t.Errorf("expected 8 zones, got %d", len(ref.Zones))
	}
	if len(ref.Districts) != 36 {
		t.Errorf("expected 36 districts, got %d", len(ref.Districts))
	}
	if len(ref.AssemblyConstituencies) != 288 {
		t.Errorf("expected 288 assembly constituencies, got %d", len(ref.AssemblyConstituencies))
	}
	if len(ref.ParliamentaryConstituencies) != 48 {
		t.Errorf("expected 48 parliamentary constituencies, got %d", len(ref.ParliamentaryConstituencies))
	}
}
