package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// DefaultProfilePic is assigned to users who never uploaded an avatar
const DefaultProfilePic = "https://i.pinimg.com/originals/f1/0f/f7/f10ff70a7155e5ab666bcdd1b45b726d.jpg"

// User is a registered account. Password holds the bcrypt hash and is never serialized to JSON.
type User struct {
	ID         string    `json:"_id" bson:"_id" gorm:"primaryKey;size:36"`
	Username   string    `json:"username" bson:"username" gorm:"uniqueIndex;size:20;not null"`
	Email      string    `json:"email" bson:"email" gorm:"uniqueIndex;not null"`
	Password   string    `json:"-" bson:"password" gorm:"not null"`
	ProfilePic string    `json:"profilePic" bson:"profilePic"`
	IsAdmin    bool      `json:"isAdmin" bson:"isAdmin" gorm:"default:false"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt" gorm:"index"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
}

// SignupRequest defines the request body for local registration
type SignupRequest struct {
	Username string `json:"username" validate:"required,username" errmsg:"username:Username must be 3-20 characters and contain only alphabets, numbers, underscores, and spaces"`
	Email    string `json:"email" validate:"required,emailshape" errmsg:"emailshape:Invalid Email format"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest defines the request body for email/password login
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// GoogleLoginRequest carries a Firebase ID token obtained by the SPA
type GoogleLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// UpdateUserRequest defines the whitelisted fields of a profile update.
// Empty fields are left untouched.
type UpdateUserRequest struct {
	Username   string `json:"username" validate:"omitempty,min=3,max=20,username" errmsg:"min:Username must be between 3 and 20 characters long|max:Username must be between 3 and 20 characters long|username:Username can only contain alphabets, numbers, underscores, and spaces"`
	Email      string `json:"email" validate:"omitempty,emailshape" errmsg:"emailshape:Invalid Email format"`
	Password   string `json:"password" validate:"omitempty,min=6,password" errmsg:"min:Password must be at least 6 characters long|password:Password must contain at least one uppercase letter, one lowercase letter, one digit."`
	ProfilePic string `json:"profilePic"`
}

// UserUpdate is the storage-level patch built from UpdateUserRequest. Nil fields are not written.
type UserUpdate struct {
	Username   *string
	Email      *string
	Password   *string
	ProfilePic *string
}

// Empty reports whether the patch would write nothing but the timestamp.
func (u UserUpdate) Empty() bool {
	return u.Username == nil && u.Email == nil && u.Password == nil && u.ProfilePic == nil
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID  string `json:"userId"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// UsersPage is the admin user listing response
type UsersPage struct {
	Users          []User `json:"users"`
	TotalUsers     int64  `json:"totalUsers"`
	LastMonthUsers int64  `json:"lastMonthUsers"`
}
