package domain

// CartItem is a single product entry in a user's cart.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Cart is the per-user shopping cart kept in Redis.
type Cart struct {
	UserID string     `json:"user_id"`
	Items  []CartItem `json:"items"`
}

// AddItem increments the quantity for an existing product or appends a new
// item with quantity 1.
func (c *Cart) AddItem(productID string) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity++
			return
		}
	}
	c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: 1})
}

// SetQuantity updates the quantity for productID. A quantity of zero removes
// the item. It reports whether the product was present.
func (c *Cart) SetQuantity(productID string, quantity int) bool {
	for i := range c.Items {
		if c.Items[i].ProductID != productID {
			continue
		}
		if quantity <= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		} else {
			c.Items[i].Quantity = quantity
		}
		return true
	}
	return false
}

// RemoveItem deletes productID from the cart. It reports whether the product
// was present.
func (c *Cart) RemoveItem(productID string) bool {
	return c.SetQuantity(productID, 0)
}

// ProductIDs returns the ids of every item in the cart, in order.
func (c *Cart) ProductIDs() []string {
	ids := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.ProductID)
	}
	return ids
}
