package controllers

import (
	"github.com/shashiranjanraj/shirtshop/app/resources"
	"github.com/shashiranjanraj/shirtshop/app/services"
	"github.com/shashiranjanraj/shirtshop/pkg/ctx"
	"github.com/shashiranjanraj/shirtshop/pkg/resource"
)

type AdminController struct {
	fulfillment *services.FulfillmentService
}

func NewAdminController(fulfillment *services.FulfillmentService) *AdminController {
	return &AdminController{fulfillment: fulfillment}
}

type statusInput struct {
	Status         string `json:"status" validate:"required"`
	TrackingNumber string `json:"trackingNumber" validate:"nullable,max=128"`
}

func (ac *AdminController) Orders(c *ctx.Context) {
	orders, err := ac.fulfillment.ListOrders(c.Context(), c.Identity())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resource.Collection(orders, resources.AdminOrder))
}

func (ac *AdminController) UpdateStatus(c *ctx.Context) {
	id, err := c.ParamUint("id")
	if err != nil {
		c.Fail(err)
		return
	}
	var in statusInput
	if !c.BindJSON(&in) {
		return
	}

	order, err := ac.fulfillment.AdvanceStatus(c.Context(), c.Identity(), id, in.Status, in.TrackingNumber)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resources.AdminOrder(*order))
}

func (ac *AdminController) Address(c *ctx.Context) {
	userID, err := c.ParamUint("userId")
	if err != nil {
		c.Fail(err)
		return
	}
	addr, err := ac.fulfillment.GetAddressForUser(c.Context(), c.Identity(), userID)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resources.Address(*addr))
}
