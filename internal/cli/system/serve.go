package system

import (
	"context"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/httpapi"
)

type ServeCmd struct {
	Addr string `help:"Address to listen on. Defaults to HABITUAL_HTTP_ADDR."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	defer ctx.Store.Close()

	addr := c.Addr
	if addr == "" {
		addr = ctx.Config.HTTPAddr
	}

	router := httpapi.NewRouter(ctx.Service, ctx.UserID())
	ctx.Printf("Listening on %s\n", addr)
	return httpapi.Run(context.Background(), httpapi.NewServer(addr, router))
}
