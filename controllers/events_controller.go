package controllers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"stockage-api/services"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// EventsController streams data-change events as Server-Sent Events. The
// client contract is to fully reload the list on any change; events carry
// only table, action and sequence number, no row payload.
type EventsController struct {
	Hub *services.ChangeHub
}

func NewEventsController(hub *services.ChangeHub) *EventsController {
	return &EventsController{Hub: hub}
}

func (c *EventsController) Stream(ctx *fiber.Ctx) error {
	ctx.Set("Content-Type", "text/event-stream")
	ctx.Set("Cache-Control", "no-cache")
	ctx.Set("Connection", "keep-alive")

	events, cancel := c.Hub.Subscribe()

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()

		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				payload, err := json.Marshal(ev)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload)
				if err := w.Flush(); err != nil {
					return
				}
			case <-ticker.C:
				// Keep-alive comment so proxies do not drop the stream.
				fmt.Fprint(w, ": ping\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}
