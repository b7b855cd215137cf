// Package cli implements the gophauth command-line client: one cobra
// command per account service operation.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/api"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
	pb "github.com/dmitrijs2005/gophauth/internal/proto"
	"github.com/spf13/cobra"
	"google.golang.org/grpc/status"
)

// AccountClient is what the commands need from *api.Client.
type AccountClient interface {
	pb.AccountServiceClient
	Close() error
}

// Dialer opens a client for the server at addr.
type Dialer func(addr string) (AccountClient, error)

// DialGRPC connects to the account service over gRPC.
func DialGRPC(addr string) (AccountClient, error) {
	c, err := api.NewClient(addr)
	if err != nil {
		return nil, err
	}
	return c, nil
}

type App struct {
	dial Dialer
	cfg  *config.Config

	configPath string
	addr       string
	timeout    time.Duration
}

// loadConfig resolves the effective configuration: defaults, JSON file and
// environment first, then any flag given on the command line.
func (a *App) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.ServerEndpointAddr = a.addr
	}
	if cmd.Flags().Changed("timeout") {
		cfg.RequestTimeout = a.timeout
	}
	a.cfg = cfg
	return nil
}

// call dials the server, runs fn under the request timeout and prints its
// result as JSON.
func (a *App) call(cmd *cobra.Command, fn func(ctx context.Context, c AccountClient) (any, error)) error {
	c, err := a.dial(a.cfg.ServerEndpointAddr)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.RequestTimeout)
	defer cancel()

	out, err := fn(ctx, c)
	if err != nil {
		st := status.Convert(err)
		return fmt.Errorf("%s: %s", st.Code(), st.Message())
	}
	return printJSON(cmd.OutOrStdout(), out)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
