package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// ProductImage 颜色款式图片
type ProductImage struct {
	View string `json:"view"`
	URL  string `json:"url"`
}

// ColorVariant 商品颜色款式，名称是库存操作的查找键
type ColorVariant struct {
	Name   string         `json:"name"`
	Stock  int            `json:"stock"`
	Images []ProductImage `json:"images,omitempty"`
}

// ColorVariants 颜色款式列表（JSON 列）
type ColorVariants []ColorVariant

// Value 实现 driver.Valuer 接口
func (c ColorVariants) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	b, err := json.Marshal(c)
	return string(b), err
}

// Scan 实现 sql.Scanner 接口
func (c *ColorVariants) Scan(value interface{}) error {
	*c = ColorVariants{}
	return scanJSON(value, c)
}

// Clone 深拷贝，调整库存前使用，避免改动读取到的原始快照
func (c ColorVariants) Clone() ColorVariants {
	if c == nil {
		return nil
	}
	out := make(ColorVariants, len(c))
	for i, v := range c {
		out[i] = v
		if v.Images != nil {
			out[i].Images = append([]ProductImage(nil), v.Images...)
		}
	}
	return out
}

// Find 按名称精确匹配，返回第一个命中的下标
func (c ColorVariants) Find(name string) int {
	for i := range c {
		if c[i].Name == name {
			return i
		}
	}
	return -1
}

// Product 商品表
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                               // 主键
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`                   // 唯一标识
	Name        string         `gorm:"type:varchar(200);not null" json:"name"`             // 名称
	Category    string         `gorm:"type:varchar(100);index;not null" json:"category"`   // 分类
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 价格
	Sizes       StringArray    `gorm:"type:json" json:"sizes"`                             // 尺码
	ImageURL    string         `gorm:"type:varchar(500)" json:"image_url"`                 // 主图
	Description string         `gorm:"type:text" json:"description"`                       // 描述
	Details     StringArray    `gorm:"type:json" json:"details"`                           // 详情要点
	IsFeatured  bool           `gorm:"not null;default:false;index" json:"is_featured"`    // 是否推荐
	Colors      ColorVariants  `gorm:"type:json" json:"colors"`                            // 颜色款式与库存
	Version     uint64         `gorm:"not null;default:1" json:"-"`                        // 乐观锁版本
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// TotalStock 所有颜色库存之和
func (p *Product) TotalStock() int {
	total := 0
	for _, v := range p.Colors {
		total += v.Stock
	}
	return total
}
