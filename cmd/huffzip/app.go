package main

import (
	"github.com/dargueta/huffzip/container"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const loggerKey = "logger"

func newApp() *cli.App {
	return &cli.App{
		Name:  "huffzip",
		Usage: "Compress files with Huffman coding or a BWT/MTF/RLE pipeline",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log every block to stderr",
				EnvVars: []string{"HUFFZIP_VERBOSE"},
			},
		},
		Before: setUpLogger,
		After:  flushLogger,
		Commands: []*cli.Command{
			{
				Name:      "compress",
				Usage:     "Compress a file",
				Action:    compressFile,
				ArgsUsage: "INPUT_FILE  OUTPUT_FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "method",
						Aliases: []string{"m"},
						Value:   "auto",
						Usage:   "huffman, bwt, or auto to pick one based on the input",
						EnvVars: []string{"HUFFZIP_METHOD"},
					},
					&cli.IntFlag{
						Name:    "block-size",
						Aliases: []string{"b"},
						Value:   container.DefaultBlockSize,
						Usage:   "number of input bytes compressed together",
						EnvVars: []string{"HUFFZIP_BLOCK_SIZE"},
					},
				},
			},
			{
				Name:      "decompress",
				Usage:     "Decompress a file made by `compress`",
				Action:    decompressFile,
				ArgsUsage: "INPUT_FILE  OUTPUT_FILE",
			},
			{
				Name:      "suggest",
				Usage:     "Print the method the advisor recommends for each file",
				Action:    suggestMethods,
				ArgsUsage: "FILE...",
			},
			{
				Name:      "bench",
				Usage:     "Compress each file with every method and print a CSV report",
				Action:    benchFiles,
				ArgsUsage: "FILE...",
			},
		},
	}
}

func setUpLogger(ctx *cli.Context) error {
	logger := zap.NewNop()
	if ctx.Bool("verbose") {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
	}

	if ctx.App.Metadata == nil {
		ctx.App.Metadata = make(map[string]interface{})
	}
	ctx.App.Metadata[loggerKey] = logger
	return nil
}

func flushLogger(ctx *cli.Context) error {
	// Sync fails on unbuffered terminals, nothing useful to do about it.
	_ = getLogger(ctx).Sync()
	return nil
}

func getLogger(ctx *cli.Context) *zap.Logger {
	logger, ok := ctx.App.Metadata[loggerKey].(*zap.Logger)
	if !ok {
		return zap.NewNop()
	}
	return logger
}
