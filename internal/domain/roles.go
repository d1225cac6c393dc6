package domain

// Level enumerates the four age bands a unit can offer.
type Level string

const (
	LevelI   Level = "NIVEL_I"
	LevelII  Level = "NIVEL_II"
	LevelIII Level = "NIVEL_III"
	LevelIV  Level = "NIVEL_IV"
)

// Levels lists every level in ascending order.
var Levels = []Level{LevelI, LevelII, LevelIII, LevelIV}

var levelLabels = map[Level]string{
	LevelI:   "NÍVEL I - 2 a 5 anos",
	LevelII:  "NÍVEL II - 6 a 8 anos",
	LevelIII: "NÍVEL III - 9 a 11 anos",
	LevelIV:  "NÍVEL IV - 12 a 16 anos",
}

// Valid reports whether l is one of the four known levels.
func (l Level) Valid() bool {
	_, ok := levelLabels[l]
	return ok
}

// Label returns the display name of the level.
func (l Level) Label() string {
	return levelLabels[l]
}

// Role enumerates organizational roles shared by admin identities and staff.
type Role string

const (
	RoleGeneralCoordinator Role = "coordenador_geral"
	RoleGeneralDirector    Role = "diretor_geral"
	RoleUnitCoordinator    Role = "coordenador_polo"
	RoleUnitDirector       Role = "diretor_polo"
	RoleTeacher            Role = "professor"
	RoleAssistant          Role = "auxiliar"
	RoleSecretary          Role = "secretario"
	RoleTreasurer          Role = "tesoureiro"
)

// Roles lists all eight roles.
var Roles = []Role{
	RoleGeneralCoordinator,
	RoleGeneralDirector,
	RoleUnitCoordinator,
	RoleUnitDirector,
	RoleTeacher,
	RoleAssistant,
	RoleSecretary,
	RoleTreasurer,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	for _, role := range Roles {
		if role == r {
			return true
		}
	}
	return false
}

// AccessLevel is the scope of an admin identity.
type AccessLevel string

const (
	AccessGeneral      AccessLevel = "geral"
	AccessUnitSpecific AccessLevel = "polo_especifico"
)
