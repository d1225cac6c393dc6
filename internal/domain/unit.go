package domain

import "time"

// Officer is a named office holder identified by tax id.
type Officer struct {
	Name  string
	TaxID string
}

// Unit is a teaching site ("polo").
type Unit struct {
	ID               string
	Name             string
	Address          Address
	Pastor           string
	Coordinator      Officer
	Director         *Officer
	Secretary        *Officer
	Treasurer        *Officer
	Teachers         []string
	Assistants       []string
	CafeteriaWorkers []string
	AvailableLevels  []Level
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// OffersLevel reports whether the unit lists l among its levels.
func (u Unit) OffersLevel(l Level) bool {
	for _, lvl := range u.AvailableLevels {
		if lvl == l {
			return true
		}
	}
	return false
}
