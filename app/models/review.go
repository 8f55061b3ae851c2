package models

import "time"

// Review is a user's rating of a product. One review per user/product pair.
type Review struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"column:user_id;not null;uniqueIndex:idx_review_user_product" json:"userId"`
	User         *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"usuario,omitempty"`
	ProductID    uint      `gorm:"column:product_id;not null;uniqueIndex:idx_review_user_product" json:"productId"`
	Product      *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"producto,omitempty"`
	Calificacion int       `gorm:"column:calificacion;not null" json:"calificacion"` // 1..5
	Comentario   *string   `gorm:"column:comentario;size:1000" json:"comentario,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Review) TableName() string { return "reviews" }
