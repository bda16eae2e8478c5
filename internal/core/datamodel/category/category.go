package category

import "time"

// Category name is stored normalized; uniqueness among active rows per
// owner is enforced by a partial index in the migration.
type Category struct {
	ID        int64     `gorm:"primaryKey"`
	OwnerID   int64     `gorm:"column:owner_id;not null;index"`
	Name      string    `gorm:"column:name;not null"`
	IsActive  bool      `gorm:"column:is_active;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Category) TableName() string {
	return "categories"
}

// SubCategory is scoped to its parent category as well as the owner.
type SubCategory struct {
	ID         int64     `gorm:"primaryKey"`
	OwnerID    int64     `gorm:"column:owner_id;not null;index"`
	CategoryID int64     `gorm:"column:category_id;not null;index"`
	Name       string    `gorm:"column:name;not null"`
	IsActive   bool      `gorm:"column:is_active;default:true"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (SubCategory) TableName() string {
	return "sub_categories"
}
