package entity

import "time"

// User represents the centralized authentication table
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Username  string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username" validate:"required,max=50"`
	Password  string    `gorm:"type:varchar(255);not null" json:"password,omitempty" validate:"required"`
	Role      Role      `gorm:"type:varchar(10);not null" json:"role" validate:"required,oneof=admin doctor patient"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

func (*User) Kind() Kind       { return KindUser }
func (u *User) GetID() int64   { return u.ID }
func (u *User) SetID(id int64) { u.ID = id }
func (u *User) Clone() Record  { c := *u; return &c }

func (u *User) ApplyDefaults(now time.Time) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
}
