package controllers

import (
	"github.com/shashiranjanraj/shirtshop/app/models"
	"github.com/shashiranjanraj/shirtshop/app/resources"
	"github.com/shashiranjanraj/shirtshop/app/services"
	"github.com/shashiranjanraj/shirtshop/pkg/ctx"
)

type AddressController struct {
	addresses *services.AddressService
}

func NewAddressController(addresses *services.AddressService) *AddressController {
	return &AddressController{addresses: addresses}
}

type addressInput struct {
	FullName    string `json:"fullName" validate:"required,max=255"`
	HouseNumber string `json:"houseNumber" validate:"required,max=64"`
	Street      string `json:"street" validate:"required,max=255"`
	City        string `json:"city" validate:"required,max=128"`
	Province    string `json:"province" validate:"required,max=128"`
	ZipCode     string `json:"zipCode" validate:"required,alpha_dash,max=16"`
	Phone       string `json:"phone" validate:"required,max=32"`
}

// Show returns the caller's address, or null when none is saved.
func (ac *AddressController) Show(c *ctx.Context) {
	addr, err := ac.addresses.Get(c.Context(), c.Identity())
	if err != nil {
		c.Fail(err)
		return
	}
	if addr == nil {
		c.Success(nil)
		return
	}
	c.Success(resources.Address(*addr))
}

func (ac *AddressController) Update(c *ctx.Context) {
	var in addressInput
	if !c.BindJSON(&in) {
		return
	}

	addr, err := ac.addresses.Save(c.Context(), c.Identity(), models.Address{
		FullName:    in.FullName,
		HouseNumber: in.HouseNumber,
		Street:      in.Street,
		City:        in.City,
		Province:    in.Province,
		ZipCode:     in.ZipCode,
		Phone:       in.Phone,
	})
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resources.Address(*addr))
}
