// Package main provides the roialign CLI.
//
// Usage:
//
//	roialign version
//	roialign run -in features.safetensors -out pooled.safetensors -outsize 7 -scale 0.0625 [-ratio 2] [-backward] [-gpu]
//	roialign gradcheck -shape 2,3,8,8 -rois 4 -outsize 3 -scale 0.5
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const version = "v0.1.0"

func main() {
	if err := execute(os.Args[1:], os.Stdout); err != nil {
		logrus.WithError(err).Error("roialign failed")
		os.Exit(1)
	}
}

func execute(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		usage(stdout)
		return nil
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "roialign %s\n", version)
		return nil
	case "run":
		return runCommand(args[1:], stdout)
	case "gradcheck":
		return gradcheckCommand(args[1:], stdout)
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return nil
	default:
		usage(stdout)
		return errors.Errorf("unknown command %q", args[0])
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "roialign - ROI average align forward and backward")
	fmt.Fprintf(w, "Version: %s\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  version    Show version")
	fmt.Fprintln(w, "  run        Pool ROIs from a SafeTensors file (x, rois, roi_indices)")
	fmt.Fprintln(w, "  gradcheck  Compare backward against finite differences on random data")
}
