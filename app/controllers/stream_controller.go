package controllers

import (
	"github.com/shashiranjanraj/shirtshop/pkg/ctx"
	"github.com/shashiranjanraj/shirtshop/pkg/ws"
)

type StreamController struct {
	hub *ws.Hub
}

func NewStreamController(hub *ws.Hub) *StreamController {
	return &StreamController{hub: hub}
}

// Orders upgrades to a WebSocket that receives the caller's order events
// (every order's, for admins).
func (sc *StreamController) Orders(c *ctx.Context) {
	sc.hub.Serve(c.W, c.R, c.Identity())
}
