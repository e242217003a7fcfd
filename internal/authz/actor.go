package authz

// Actor — аутентифицированный пользователь глазами авторизации.
// Все решения о доступе принимаются только по этой тройке.
type Actor struct {
	ID     uint64
	Role   string
	TeamID *uint64
}

func (a *Actor) HasTeam() bool {
	return a != nil && a.TeamID != nil
}
