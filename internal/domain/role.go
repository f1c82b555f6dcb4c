package domain

type Role struct {
	ID   int64  `gorm:"primaryKey" json:"-"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

func (r Role) String() string {
	return r.Name
}
