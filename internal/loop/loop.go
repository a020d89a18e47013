// Package loop runs a single local game: a private session hub and one
// terminal client reading r and drawing to w.
package loop

import (
	"bufio"
	"context"
	"io"

	"github.com/tomz197/bubblepop/internal/loop/client"
	"github.com/tomz197/bubblepop/internal/loop/server"
)

// Run plays one local session until the player quits or r is closed.
func Run(r *bufio.Reader, w io.Writer, opts client.ClientOptions) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := server.NewServer(opts.Logger)
	go hub.Run(ctx)

	return client.NewClient(hub, r, w, opts).Run()
}
