package domain

import "testing"

func access(id string, primary bool) CompanyAccess {
	return CompanyAccess{Company: Company{ID: id}, Primary: primary}
}

func TestDefaultAccess_PrefersPrimary(t *testing.T) {
	got := DefaultAccess([]CompanyAccess{access("co-a", false), access("co-b", true)})
	if got == nil || got.Company.ID != "co-b" {
		t.Fatalf("expected primary edge co-b, got %+v", got)
	}
}

func TestDefaultAccess_FallsBackToLowestID(t *testing.T) {
	got := DefaultAccess([]CompanyAccess{access("co-c", false), access("co-a", false), access("co-b", false)})
	if got == nil || got.Company.ID != "co-a" {
		t.Fatalf("expected lowest id co-a, got %+v", got)
	}
}

func TestDefaultAccess_TwoPrimariesLowestWins(t *testing.T) {
	got := DefaultAccess([]CompanyAccess{access("co-b", true), access("co-a", true)})
	if got == nil || got.Company.ID != "co-a" {
		t.Fatalf("expected co-a, got %+v", got)
	}
}

func TestDefaultAccess_Empty(t *testing.T) {
	if got := DefaultAccess(nil); got != nil {
		t.Fatalf("expected nil for empty set, got %+v", got)
	}
}
