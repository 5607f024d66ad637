package models

// Ownership is embedded by every entity subject to visibility scoping.
type Ownership struct {
	OwnerUserID uint64  `gorm:"not null;index" json:"owner_user_id"`
	OwnerTeamID *uint64 `gorm:"index" json:"owner_team_id"`
}

// Owned is implemented by records that carry an Ownership.
type Owned interface {
	GetOwnership() Ownership
}

func (o Ownership) GetOwnership() Ownership {
	return o
}
