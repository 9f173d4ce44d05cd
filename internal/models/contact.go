package models

import "time"

// ContactMessage is one submission of the contact form
type ContactMessage struct {
	ID        string    `json:"_id" bson:"_id" gorm:"primaryKey;size:36"`
	UserID    string    `json:"userId" bson:"userId" gorm:"index;size:36;not null"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Phone     string    `json:"phone" bson:"phone" gorm:"size:10"`
	Message   string    `json:"message" bson:"message" gorm:"size:300"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// ContactRequest defines the contact form body
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,emailshape" errmsg:"emailshape:Invalid Email format"`
	Phone   string `json:"phone" validate:"required,phone" errmsg:"phone:Phone number must be 10 digits long"`
	Message string `json:"message" validate:"required,max=300" errmsg:"max:Message must be at most 300 characters long"`
}
