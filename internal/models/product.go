package models

// Product — товар каталога. Владелец назначается при создании и не меняется.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Approved    bool    `json:"approved"`
	OwnerID     string  `json:"ownerId"`
	Owner       *User   `json:"user,omitempty"`
}

// ProductInput — поля нового товара. Границы совпадают с типами колонок:
// price NUMERIC(12, 2), quantity INTEGER. Цена округляется до двух знаков при записи.
type ProductInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Price       float64 `json:"price" validate:"gte=0,lte=9999999999.99"`
	Description string  `json:"description" validate:"max=4096"`
	Quantity    int     `json:"quantity" validate:"gte=0,lte=2147483647"`
}

// ProductPatch — частичное обновление товара: меняются только заданные поля.
type ProductPatch struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0,lte=9999999999.99"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=4096"`
	Quantity    *int     `json:"quantity,omitempty" validate:"omitempty,gte=0,lte=2147483647"`
}

// Empty сообщает, что патч не содержит ни одного поля.
func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Price == nil && p.Description == nil && p.Quantity == nil
}

// Apply переносит заданные поля патча в товар.
func (p ProductPatch) Apply(product *Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Quantity != nil {
		product.Quantity = *p.Quantity
	}
}

// ProductPage — страница товаров и общее количество записей.
type ProductPage struct {
	Items []*Product
	Total int
}

// StripOwnerSecrets убирает хэш пароля владельца, если владелец вложен в товар.
func (p *Product) StripOwnerSecrets() {
	if p.Owner != nil {
		p.Owner = p.Owner.Public()
	}
}
