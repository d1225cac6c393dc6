// Package access evaluates what an authenticated session may see. Every
// function is pure and treats a nil session as unauthenticated.
package access

import "github.com/spec-kit/enrollment-service/internal/domain"

func admin(s *domain.Session) *domain.AdminIdentity {
	if !s.IsAdmin() {
		return nil
	}
	return s.Admin
}

// HasGeneralAccess reports whether the session belongs to a general-level
// admin holding one of the two institution-wide roles.
func HasGeneralAccess(s *domain.Session) bool {
	a := admin(s)
	if a == nil || a.AccessLevel != domain.AccessGeneral {
		return false
	}
	return a.Role == domain.RoleGeneralCoordinator || a.Role == domain.RoleGeneralDirector
}

// HasAccessToUnit reports whether the session may act on the unit.
func HasAccessToUnit(s *domain.Session, unitID string) bool {
	if HasGeneralAccess(s) {
		return true
	}
	a := admin(s)
	if a == nil || a.AccessLevel != domain.AccessUnitSpecific {
		return false
	}
	return a.UnitID != "" && a.UnitID == unitID
}

// CurrentAccessLevel returns the access level of an admin session. An admin
// without a level reports geral; that value is informational only and never
// widens HasGeneralAccess.
func CurrentAccessLevel(s *domain.Session) (domain.AccessLevel, bool) {
	a := admin(s)
	if a == nil {
		return "", false
	}
	if a.AccessLevel == "" {
		return domain.AccessGeneral, true
	}
	return a.AccessLevel, true
}

// AllowedUnitIDs lists the ids of units the session may act on.
func AllowedUnitIDs(s *domain.Session, units []domain.Unit) []string {
	ids := make([]string, 0, len(units))
	switch {
	case HasGeneralAccess(s):
		for _, u := range units {
			ids = append(ids, u.ID)
		}
	case admin(s) != nil && s.Admin.AccessLevel == domain.AccessUnitSpecific && s.Admin.UnitID != "":
		ids = append(ids, s.Admin.UnitID)
	}
	return ids
}

// FilterUnits keeps the units the session may act on.
func FilterUnits(s *domain.Session, units []domain.Unit) []domain.Unit {
	out := make([]domain.Unit, 0, len(units))
	for _, u := range units {
		if HasAccessToUnit(s, u.ID) {
			out = append(out, u)
		}
	}
	return out
}

// FilterEnrollments keeps the enrollments visible to the session. Students
// see their own enrollments, admins those of accessible units.
func FilterEnrollments(s *domain.Session, enrollments []domain.Enrollment) []domain.Enrollment {
	out := make([]domain.Enrollment, 0, len(enrollments))
	for _, e := range enrollments {
		if CanViewEnrollment(s, e) {
			out = append(out, e)
		}
	}
	return out
}

// CanViewEnrollment reports whether a single enrollment is visible.
func CanViewEnrollment(s *domain.Session, e domain.Enrollment) bool {
	if s == nil {
		return false
	}
	if s.Kind == domain.SessionStudent {
		return s.Person != nil && s.Person.ID == e.PersonID
	}
	return HasAccessToUnit(s, e.UnitID)
}
