package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dargueta/huffzip"
	"github.com/dargueta/huffzip/advisor"
	"github.com/dargueta/huffzip/container"
	"github.com/gocarina/gocsv"
	"github.com/hashicorp/go-multierror"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func compressFile(ctx *cli.Context) error {
	if ctx.Args().Len() != 2 {
		return cli.Exit("expected two arguments: INPUT_FILE OUTPUT_FILE", 1)
	}
	inputPath := ctx.Args().Get(0)
	outputPath := ctx.Args().Get(1)
	logger := getLogger(ctx)

	input, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open file for reading: `%v`: %w", inputPath, err)
	}
	defer input.Close()

	options := container.Options{
		BlockSize: ctx.Int("block-size"),
		Logger:    logger.With(zap.String("file", inputPath)),
	}
	options.Method, err = resolveMethod(ctx.String("method"), input, options.BlockSize)
	if err != nil {
		return err
	}

	output, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to open file for writing: `%v`: %w", outputPath, err)
	}
	defer output.Close()

	written, err := container.Compress(ctx.Context, input, output, options)
	if err != nil {
		return fmt.Errorf("error compressing %s: %w", inputPath, err)
	}

	fmt.Fprintf(
		ctx.App.Writer,
		"Compressed %s to %d bytes using %s.\n",
		inputPath,
		written,
		options.Method)
	return nil
}

func decompressFile(ctx *cli.Context) error {
	if ctx.Args().Len() != 2 {
		return cli.Exit("expected two arguments: INPUT_FILE OUTPUT_FILE", 1)
	}
	inputPath := ctx.Args().Get(0)
	outputPath := ctx.Args().Get(1)

	input, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open file for reading: `%v`: %w", inputPath, err)
	}
	defer input.Close()

	output, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to open file for writing: `%v`: %w", outputPath, err)
	}
	defer output.Close()

	written, err := container.Decompress(
		ctx.Context,
		input,
		output,
		getLogger(ctx).With(zap.String("file", inputPath)))
	if err != nil {
		return fmt.Errorf("error expanding %s: %w", inputPath, err)
	}

	fmt.Fprintf(ctx.App.Writer, "Expanded %s to %d bytes.\n", inputPath, written)
	return nil
}

func suggestMethods(ctx *cli.Context) error {
	if ctx.Args().Len() == 0 {
		return cli.Exit("expected at least one file", 1)
	}

	var result *multierror.Error
	for _, path := range ctx.Args().Slice() {
		stats, err := inspectPath(path, container.DefaultBlockSize)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		fmt.Fprintf(
			ctx.App.Writer,
			"%s\t%d bytes\tentropy %.3f\t%s\n",
			path,
			stats.Size,
			stats.Entropy,
			stats.Method)
	}
	return result.ErrorOrNil()
}

// benchResult is one row of the report printed by the `bench` command.
type benchResult struct {
	File             string  `csv:"file"`
	Method           string  `csv:"method"`
	InputBytes       int     `csv:"input_bytes"`
	OutputBytes      int     `csv:"output_bytes"`
	Ratio            float64 `csv:"ratio"`
	CompressMillis   int64   `csv:"compress_ms"`
	DecompressMillis int64   `csv:"decompress_ms"`
	Verified         bool    `csv:"verified"`
}

func benchFiles(ctx *cli.Context) error {
	if ctx.Args().Len() == 0 {
		return cli.Exit("expected at least one file", 1)
	}
	logger := getLogger(ctx)

	var result *multierror.Error
	rows := make([]benchResult, 0, ctx.Args().Len()*len(huffzip.Methods))
	for _, path := range ctx.Args().Slice() {
		data, err := os.ReadFile(path)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}

		for _, method := range huffzip.Methods {
			row, err := benchOne(ctx, data, container.Options{
				Method: method,
				Logger: logger.With(zap.String("file", path)),
			})
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("%s with %s: %w", path, method, err))
				continue
			}
			row.File = path
			rows = append(rows, row)
		}
	}

	if len(rows) > 0 {
		if err := gocsv.Marshal(rows, ctx.App.Writer); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func benchOne(ctx *cli.Context, data []byte, options container.Options) (benchResult, error) {
	compressed := new(bytes.Buffer)
	start := time.Now()
	_, err := container.Compress(ctx.Context, bytes.NewReader(data), compressed, options)
	if err != nil {
		return benchResult{}, err
	}
	compressTime := time.Since(start)

	expanded := bytes.NewBuffer(make([]byte, 0, len(data)))
	start = time.Now()
	_, err = container.Decompress(
		ctx.Context, bytes.NewReader(compressed.Bytes()), expanded, options.Logger)
	if err != nil {
		return benchResult{}, err
	}
	decompressTime := time.Since(start)

	row := benchResult{
		Method:           options.Method.String(),
		InputBytes:       len(data),
		OutputBytes:      compressed.Len(),
		CompressMillis:   compressTime.Milliseconds(),
		DecompressMillis: decompressTime.Milliseconds(),
		Verified:         bytes.Equal(data, expanded.Bytes()),
	}
	if len(data) > 0 {
		row.Ratio = float64(compressed.Len()) / float64(len(data))
	}
	return row, nil
}

////////////////////////////////////////////////////////////////////////////////
// Helper functions

type fileStats struct {
	Size    uint64
	Entropy float64
	Method  huffzip.Method
}

// inspectFile measures the entropy of the first `sampleSize` bytes of file and
// asks the advisor for a method. The file is rewound afterwards.
func inspectFile(file *os.File, sampleSize int) (fileStats, error) {
	info, err := file.Stat()
	if err != nil {
		return fileStats{}, err
	}
	if sampleSize <= 0 || sampleSize > container.MaxBlockSize {
		sampleSize = container.DefaultBlockSize
	}
	if int64(sampleSize) > info.Size() {
		sampleSize = int(info.Size())
	}

	sample := make([]byte, sampleSize)
	bytesRead, err := io.ReadFull(file, sample)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return fileStats{}, err
	}
	if _, err = file.Seek(0, io.SeekStart); err != nil {
		return fileStats{}, err
	}

	stats := fileStats{
		Size:    uint64(info.Size()),
		Entropy: advisor.Entropy(sample[:bytesRead]),
	}
	stats.Method = advisor.PredictMethod(stats.Size, stats.Entropy)
	return stats, nil
}

func inspectPath(path string, sampleSize int) (fileStats, error) {
	file, err := os.Open(path)
	if err != nil {
		return fileStats{}, err
	}
	defer file.Close()
	return inspectFile(file, sampleSize)
}

// resolveMethod converts the --method flag to a method, consulting the advisor
// if it's "auto".
func resolveMethod(name string, input *os.File, blockSize int) (huffzip.Method, error) {
	if name != "auto" {
		return huffzip.ParseMethod(name)
	}
	stats, err := inspectFile(input, blockSize)
	if err != nil {
		return 0, err
	}
	return stats.Method, nil
}
