package controllers

import (
	"github.com/shashiranjanraj/shirtshop/app/resources"
	"github.com/shashiranjanraj/shirtshop/app/services"
	"github.com/shashiranjanraj/shirtshop/pkg/ctx"
	"github.com/shashiranjanraj/shirtshop/pkg/resource"
)

type CartController struct {
	cart *services.CartService
}

func NewCartController(cart *services.CartService) *CartController {
	return &CartController{cart: cart}
}

// No price field: lines are always charged at the catalog price.
type addItemInput struct {
	ProductID uint   `json:"productId" validate:"required"`
	Size      string `json:"size" validate:"required,max=32"`
}

func (cc *CartController) AddItem(c *ctx.Context) {
	var in addItemInput
	if !c.BindJSON(&in) {
		return
	}
	items, err := cc.cart.AddItem(c.Context(), c.Identity(), in.ProductID, in.Size)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resources.Cart(items))
}

func (cc *CartController) Show(c *ctx.Context) {
	items, err := cc.cart.GetCart(c.Context(), c.Identity())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resources.Cart(items))
}

func (cc *CartController) RemoveItem(c *ctx.Context) {
	id, err := c.ParamUint("id")
	if err != nil {
		c.Fail(err)
		return
	}
	if err := cc.cart.RemoveItem(c.Context(), c.Identity(), id); err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]bool{"ok": true})
}

func (cc *CartController) Checkout(c *ctx.Context) {
	order, err := cc.cart.Checkout(c.Context(), c.Identity())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resources.Order(*order))
}

func (cc *CartController) History(c *ctx.Context) {
	orders, err := cc.cart.GetHistory(c.Context(), c.Identity())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resource.Collection(orders, resources.Order))
}
