// file: models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type UserRole string

const (
	RoleUser   UserRole = "user"
	RoleAdmin  UserRole = "admin"
	RoleSystem UserRole = "system"
)

// SystemUsername 保留账号，迁移时接管无主题目
const SystemUsername = "system"

type User struct {
	ID          uint32   `gorm:"primarykey" json:"id"`
	Username    string   `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email       string   `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password    string   `gorm:"size:255" json:"-"`
	GoogleID    *string  `gorm:"size:100;uniqueIndex" json:"-"`
	DisplayName string   `gorm:"size:50" json:"display_name"`
	Bio         string   `gorm:"size:200" json:"bio"`
	Avatar      string   `gorm:"size:255;default:'default_avatar.png'" json:"avatar"`
	Points      int      `gorm:"not null;default:0" json:"points"`
	Role        UserRole `gorm:"size:20;not null;default:'user'" json:"role"`

	GithubLink  string `gorm:"size:255" json:"github,omitempty"`
	TwitterLink string `gorm:"size:255" json:"twitter,omitempty"`
	WebsiteLink string `gorm:"size:255" json:"website,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "ctf_user"
}

// SetPassword 以 bcrypt(cost=12) 哈希明文密码
func (u *User) SetPassword(plain string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), 12)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword 校验密码是否正确
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}
