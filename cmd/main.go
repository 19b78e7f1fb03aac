package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/NCATS-Gamma/ginhashids/internal/config"
	"github.com/NCATS-Gamma/ginhashids/internal/hashids"
	"github.com/NCATS-Gamma/ginhashids/internal/users"
)

func main() {
	app := &cli.App{
		Name:  "ginhashids",
		Usage: "serve the users example or encode/decode hashids",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the users example server",
				Action: serve,
			},
			{
				Name:      "encode",
				Usage:     "encode one or more non-negative integers",
				ArgsUsage: "<int> [int...]",
				Action:    encode,
			},
			{
				Name:      "decode",
				Usage:     "decode a hashid",
				ArgsUsage: "<hashid>",
				Action:    decode,
			},
		},
		Action: serve,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setup() (config.Config, *hashids.Hashids, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, err
	}
	log.SetLevel(cfg.LogLevel)
	h, err := hashids.New(cfg.Hashids)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, h, nil
}

func serve(c *cli.Context) error {
	cfg, h, err := setup()
	if err != nil {
		return err
	}

	store, err := users.OpenStore(cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", cfg.DatabaseFile, err)
	}
	defer store.Close()
	if cfg.SeedData {
		if err := store.LoadSampleData(); err != nil {
			return err
		}
	}

	r, _, err := users.SetupRouter(store, h, cfg.CORSOrigins)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"addr": cfg.Addr, "mode": gin.Mode()}).Info("Listening")
	return r.Run(cfg.Addr)
}

func encode(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("encode needs at least one integer", 1)
	}
	_, h, err := setup()
	if err != nil {
		return err
	}
	values := make([]int, 0, c.NArg())
	for _, arg := range c.Args().Slice() {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return cli.Exit(fmt.Sprintf("%q is not an integer", arg), 1)
		}
		values = append(values, n)
	}
	hash, err := h.Encode(values...)
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}

func decode(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("decode needs exactly one hashid", 1)
	}
	_, h, err := setup()
	if err != nil {
		return err
	}
	decoded := h.Decode(c.Args().First())
	if !decoded.Valid() {
		return cli.Exit(fmt.Sprintf("%q is not a valid hashid", c.Args().First()), 1)
	}
	for _, id := range decoded.Ints() {
		fmt.Println(id)
	}
	return nil
}
