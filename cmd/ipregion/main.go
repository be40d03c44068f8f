// Command ipregion prints the AWS region that owns an IP address.
//
//	ipregion <ip>
//
// The ranges document is read from ip-ranges.json in the working
// directory unless IPREGION_RANGES names another file. Nothing is printed
// when no published prefix contains the address.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v10"

	"github.com/aluiziolira/selectm/awsip"
)

var errUsage = errors.New("usage: ipregion <ip>")

type options struct {
	RangesFile string `env:"IPREGION_RANGES" envDefault:"ip-ranges.json"`
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	var opts options
	if err := env.Parse(&opts); err != nil {
		slog.Error("parse environment", slog.Any("error", err))
		os.Exit(1)
	}

	if err := run(os.Args[1:], opts, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		slog.Error("lookup failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(args []string, opts options, stdout io.Writer) error {
	if len(args) != 1 {
		return errUsage
	}

	f, err := os.Open(opts.RangesFile)
	if err != nil {
		return fmt.Errorf("open ranges file: %w", err)
	}
	defer f.Close()

	region, err := awsip.Lookup(f, args[0])
	if err != nil {
		return err
	}
	if region == awsip.Unknown {
		slog.Info("no published prefix contains address", slog.String("ip", args[0]))
		return nil
	}
	_, err = fmt.Fprintln(stdout, region)
	return err
}
