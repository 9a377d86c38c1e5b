package main

import (
	"github.com/bitrainforest/ipfs2filecoin/pkg/commp"
	"github.com/bitrainforest/ipfs2filecoin/pkg/deal"
	"github.com/bitrainforest/ipfs2filecoin/pkg/env"
	"github.com/bitrainforest/ipfs2filecoin/pkg/fetcher"
	"github.com/bitrainforest/ipfs2filecoin/pkg/process"
	"github.com/bitrainforest/ipfs2filecoin/pkg/server"
	logging "github.com/ipfs/go-log/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"net/http"
	"os"
	"time"
)

var log = logging.Logger("ipfs2filecoin")

func main() {
	app := &cli.App{
		Name:  "ipfs2filecoin",
		Usage: "make Filecoin storage deals for IPFS content",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "listen-addr",
				Aliases: []string{"l"},
				Usage:   "server listen address",
				Value:   "0.0.0.0:8888",
				EnvVars: []string{string(env.ListenAddr)},
			},
			&cli.StringFlag{
				Name:    "ipfs-gateway",
				Aliases: []string{"i"},
				Usage:   "IPFS gateway to fetch content from",
				Value:   "https://ipfs.io",
				EnvVars: []string{string(env.IPFSGateway)},
			},
			&cli.StringFlag{
				Name:     "miner-id",
				Aliases:  []string{"m"},
				Usage:    "storage provider to make deals with",
				Required: true,
				EnvVars:  []string{string(env.MinerID)},
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(cctx *cli.Context) error {
	cfg := server.Config{
		ListenAddr:      cctx.String("listen-addr"),
		IPFSGateway:     cctx.String("ipfs-gateway"),
		MinerID:         cctx.String("miner-id"),
		FetchTimeout:    env.GetDuration(env.FetchTimeout, time.Hour),
		CommandTimeout:  env.GetDuration(env.CommandTimeout, 10*time.Minute),
		MaxDealAttempts: env.GetInt(env.MaxDealAttempts, 5),
		CommpCacheTTL:   env.GetDuration(env.CommpCacheTTL, 0),
	}

	runner := process.Exec{Timeout: cfg.CommandTimeout}
	calculator := commp.NewCalculator(env.GetString(env.BoostxPath, "boostx"), runner)
	negotiator := deal.NewNegotiator(env.GetString(env.BoostPath, "boost"), runner, cfg.MaxDealAttempts)
	contentFetcher := fetcher.NewHTTPFetcher(cfg.FetchTimeout)

	var recorder server.Recorder
	if uri := env.GetString(env.MongoURI, ""); uri != "" {
		store, err := deal.NewStore(cctx.Context, uri, env.GetString(env.MongoDatabase, "ipfs2filecoin"))
		if err != nil {
			return errors.Wrap(err, "failed to create deal store")
		}

		defer store.Close()
		recorder = store
	}

	srv := server.New(cfg, contentFetcher, calculator, negotiator, recorder)
	mux := http.NewServeMux()
	srv.Register(mux)

	log.With("minerId", cfg.MinerID, "gateway", cfg.IPFSGateway).
		Infof("listening on %s", cfg.ListenAddr)
	return errors.Wrap(http.ListenAndServe(cfg.ListenAddr, mux), "server stopped")
}
