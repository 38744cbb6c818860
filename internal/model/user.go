package model

type UserRole string

const (
	Student    UserRole = "STUDENT"
	Instructor UserRole = "INSTRUCTOR"
	Admin      UserRole = "ADMIN"
)

func (r UserRole) Valid() bool {
	switch r {
	case Student, Instructor, Admin:
		return true
	}
	return false
}

// swagger:model User
type User struct {
	UUIDBase
	Email    string   `gorm:"size:191;uniqueIndex;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Name     string   `gorm:"size:100;not null" json:"name"`
	Role     UserRole `gorm:"size:20;default:'STUDENT';not null" json:"role"`
	Bio      *string  `gorm:"type:text" json:"bio,omitempty"`
	Avatar   *string  `gorm:"size:255" json:"avatar,omitempty"`
}

func (User) TableName() string {
	return "users"
}
