package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/OriD-19/fpsmeter/internal/host"
	"github.com/OriD-19/fpsmeter/internal/logging"
)

func NewCmdServe() *cobra.Command {
	var (
		addr   string
		path   string
		ticker = host.TickerHost{Refresh: host.DefaultRefresh}
	)
	cmd := &cobra.Command{
		Use:                   "serve",
		DisableFlagsInUseLine: true,
		Short:                 "Serve synthetic frame events over websocket.",
		Long: `
		Serve a websocket endpoint that sends one message per frame of a local ticker.

		Point "fpsmeter run --source websocket" at it to exercise the remote frame
		source, including stalls and reconnects.`,
		Example: `
		# 120 frames per second with a 40ms hitch every 60 frames
		fpsmeter serve --addr :8080 --refresh 120 --stall-every 60 --stall 40ms

		# In another terminal
		fpsmeter run --source websocket --url ws://localhost:8080/frames`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ticker.Refresh <= 0 {
				return fmt.Errorf("--refresh must be positive")
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			mux := http.NewServeMux()
			mux.Handle(path, &host.FrameServer{Ticker: ticker})
			srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

			go func() {
				<-ctx.Done()
				shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(shutdown)
			}()

			logging.Infof("serving frames at ws://%s%s (%.0fHz)", addr, path, ticker.Refresh)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "Address to listen on.")
	cmd.Flags().StringVar(&path, "path", "/frames", "Websocket endpoint path.")
	cmd.Flags().Float64Var(&ticker.Refresh, "refresh", ticker.Refresh, "Frames per second to send.")
	cmd.Flags().IntVar(&ticker.StallEvery, "stall-every", 0, "Stall every N frames. 0 disables stalls.")
	cmd.Flags().DurationVar(&ticker.Stall, "stall", 0, "How long each stall lasts (e.g. 50ms).")

	return cmd
}

func init() {
	rootCmd.AddCommand(NewCmdServe())
}
