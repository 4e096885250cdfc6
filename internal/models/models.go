package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleSuper Role = "SUPER"
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Roles lists every role from most to least privileged.
var Roles = []Role{RoleSuper, RoleAdmin, RoleUser}

// PrivilegeLevel maps a role to an explicit rank; unknown roles rank 0.
func (r Role) PrivilegeLevel() int {
	switch r {
	case RoleSuper:
		return 3
	case RoleAdmin:
		return 2
	case RoleUser:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether r is as privileged as min or more.
func (r Role) AtLeast(min Role) bool {
	return r.PrivilegeLevel() > 0 && r.PrivilegeLevel() >= min.PrivilegeLevel()
}

func (r Role) Valid() bool { return r.PrivilegeLevel() > 0 }

type Account struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username     string    `gorm:"type:text;not null" json:"username"` // UNIQUE(lower(username)) в миграции
	Email        string    `gorm:"type:text;not null" json:"email"`    // UNIQUE(lower(email)) в миграции
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	Role         Role      `gorm:"type:text;not null;default:'USER';index" json:"role"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Account) TableName() string { return "accounts" }

type ProductStatus string

const (
	ProductPreparing ProductStatus = "PREPARING"
	ProductInStock   ProductStatus = "IN_STOCK"
	ProductSoldOut   ProductStatus = "SOLD_OUT"
	ProductDeleted   ProductStatus = "DELETED"
)

// VisibleStatuses are the statuses shown in the storefront listing.
var VisibleStatuses = []ProductStatus{ProductInStock, ProductPreparing, ProductSoldOut}

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductPreparing, ProductInStock, ProductSoldOut, ProductDeleted:
		return true
	}
	return false
}

type Product struct {
	ID          uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string        `gorm:"type:text;not null" json:"name"`
	Price       int64         `gorm:"not null;default:0" json:"price"`
	StockCount  int32         `gorm:"not null;default:0" json:"stock_count"` // CHECK (stock_count >= 0)
	Status      ProductStatus `gorm:"type:text;not null;default:'PREPARING';index" json:"status"`
	Description string        `gorm:"type:text" json:"description"`
	Memo        string        `gorm:"type:text" json:"memo"`
	Image       string        `gorm:"type:text" json:"image"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Product) TableName() string { return "products" }

type OrderStatus string

const OrderStatusOrdered OrderStatus = "ORDERED"

type Order struct {
	ID        uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AccountID uuid.UUID   `gorm:"type:uuid;not null;index" json:"account_id"`
	Status    OrderStatus `gorm:"type:text;not null;default:'ORDERED';index" json:"status"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`

	Account *Account    `gorm:"foreignKey:AccountID;constraint:OnDelete:RESTRICT" json:"-"`
	Lines   []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines,omitempty"`
}

func (Order) TableName() string { return "orders" }

// TotalPrice sums the snapshotted line totals.
func (o *Order) TotalPrice() int64 {
	var total int64
	for _, l := range o.Lines {
		total += l.TotalPrice
	}
	return total
}

type OrderLine struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_order_lines_order_product" json:"order_id"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_order_lines_order_product" json:"product_id"`
	Quantity   int32     `gorm:"not null" json:"quantity"`
	TotalPrice int64     `gorm:"not null" json:"total_price"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (OrderLine) TableName() string { return "order_lines" }

type Cart struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AccountID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"account_id"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`

	Account *Account   `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"-"`
	Lines   []CartLine `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"lines"`
}

func (Cart) TableName() string { return "carts" }

type CartLine struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CartID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_cart_lines_cart_product" json:"cart_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_cart_lines_cart_product" json:"product_id"`
	Quantity  int32     `gorm:"not null" json:"quantity"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}

func (CartLine) TableName() string { return "cart_lines" }
