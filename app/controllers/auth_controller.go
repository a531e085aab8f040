package controllers

import (
	"github.com/shashiranjanraj/shirtshop/app/resources"
	"github.com/shashiranjanraj/shirtshop/app/services"
	"github.com/shashiranjanraj/shirtshop/config"
	"github.com/shashiranjanraj/shirtshop/pkg/ctx"
	"github.com/shashiranjanraj/shirtshop/pkg/middleware"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

type registerInput struct {
	Username string `json:"username" validate:"required,alpha_num,between=3,30"`
	Password string `json:"password" validate:"required,min=8,confirmed"`
	Confirm  string `json:"password_confirmation"`
}

type loginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (ac *AuthController) Register(c *ctx.Context) {
	var in registerInput
	if !c.BindJSON(&in) {
		return
	}

	u, err := ac.service.Register(c.Context(), in.Username, in.Password)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(resources.User(*u))
}

func (ac *AuthController) Login(c *ctx.Context) {
	var in loginInput
	if !c.BindJSON(&in) {
		return
	}

	token, u, err := ac.service.Login(c.Context(), in.Username, in.Password)
	if err != nil {
		c.Fail(err)
		return
	}

	c.SetCookie(middleware.TokenCookie, token, int(config.JWTTTL().Seconds()), secureCookies())
	c.Success(map[string]any{
		"token": token,
		"user":  resources.User(*u),
	})
}

func (ac *AuthController) Logout(c *ctx.Context) {
	c.SetCookie(middleware.TokenCookie, "", -1, secureCookies())
	c.Message("Logged out")
}

// CheckSession echoes the identity carried by the caller's token.
func (ac *AuthController) CheckSession(c *ctx.Context) {
	id := c.Identity()
	c.Success(map[string]any{
		"id":       id.UserID,
		"username": id.Name,
		"role":     id.Role,
	})
}

func secureCookies() bool {
	return config.AppEnv() == "production"
}
