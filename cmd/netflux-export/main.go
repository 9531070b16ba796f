// netflux-export compiles a topology snapshot into a Mininet-WiFi or
// Containernet emulation script.
//
// Usage:
//
//	netflux-export -in topology.json -out lab.py
//	netflux-export -in topology.yaml -out lab.py -policy strict-coverage
//	netflux-export -in topology.json -out lab.py -publish-dir /var/lib/netflux5g
//	netflux-export -in topology.json -out lab.py -s3-bucket exports
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/export"
	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/logging"
	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/publish"
	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/spatial"
	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/topology"
)

func main() {
	in := flag.String("in", "", "Topology snapshot file (.json, .yaml)")
	out := flag.String("out", "topology.py", "Output script path")
	name := flag.String("name", "", "Topology name for the script header (default: output basename)")
	policy := flag.String("policy", string(spatial.NearestFallback),
		"Association policy: nearest-fallback or strict-coverage")
	publishDir := flag.String("publish-dir", "", "Copy the result bundle into this artifact directory")
	s3Bucket := flag.String("s3-bucket", "", "Upload the result bundle to this S3 bucket")
	s3Prefix := flag.String("s3-prefix", "netflux5g", "Key prefix for S3 uploads")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	logging.DefaultLogger().SetLevel(logging.ParseLevel(*logLevel))

	if *in == "" {
		fmt.Fprintln(os.Stderr, "error: -in is required")
		flag.Usage()
		os.Exit(2)
	}

	topo, report, err := topology.ReadTopology(*in, nil)
	if err != nil {
		fatal("read topology", err)
	}
	if !report.Clean() {
		for _, s := range report.SkippedNodes {
			logging.Warn("skipped node", logging.String("detail", s))
		}
		for _, s := range report.SkippedLinks {
			logging.Warn("skipped link", logging.String("detail", s))
		}
	}

	opts := export.Options{
		Name:   *name,
		Policy: spatial.Policy(*policy),
	}
	if opts.Name == "" {
		opts.Name = strings.TrimSuffix(filepath.Base(*out), filepath.Ext(*out))
	}
	if opts.Policy != spatial.NearestFallback && opts.Policy != spatial.StrictCoverage {
		fatal("parse flags", fmt.Errorf("unknown policy %q", *policy))
	}

	dep, err := export.Export(topo, opts, *out)
	if err != nil {
		fatal("export", err)
	}

	printSummary(os.Stdout, *out, dep)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if *publishDir != "" {
		if err := publishTo(ctx, publish.NewLocalStore(*publishDir), dep, opts.Name); err != nil {
			fatal("publish", err)
		}
	}
	if *s3Bucket != "" {
		store, err := publish.NewS3Store(ctx, *s3Bucket, *s3Prefix)
		if err != nil {
			fatal("upload", err)
		}
		if err := publishTo(ctx, store, dep, opts.Name); err != nil {
			fatal("upload", err)
		}
	}
}

func printSummary(w *os.File, out string, dep *export.Deployment) {
	fmt.Fprintf(w, "wrote %s\n", out)
	fmt.Fprintf(w, "  nodes:          %d\n", dep.Summary.Nodes)
	fmt.Fprintf(w, "  links emitted:  %d\n", dep.Summary.EmittedLinks)
	fmt.Fprintf(w, "  nf instances:   %d\n", dep.Summary.Instances)
	if len(dep.Artifacts) > 0 {
		fmt.Fprintf(w, "  config files:   %d (in %s/)\n", len(dep.Artifacts), export.ConfigDirName)
	}
	for _, s := range dep.Summary.Synthesized {
		fmt.Fprintf(w, "  synthesized:    %s\n", s)
	}
	for _, s := range dep.Summary.DroppedLinks {
		fmt.Fprintf(w, "  dropped link:   %s\n", s)
	}
	for _, s := range dep.Summary.OutOfRange {
		fmt.Fprintf(w, "  out of range:   %s\n", s)
	}
}

// bundleFrom renders the deployment into a publishable bundle: the script
// plus every config artifact under the config directory.
func bundleFrom(dep *export.Deployment, name string) (*publish.Bundle, error) {
	var script bytes.Buffer
	if err := export.WriteScript(&script, dep, name); err != nil {
		return nil, err
	}
	bundle := &publish.Bundle{
		Name:      name,
		Script:    script.Bytes(),
		Artifacts: make(map[string][]byte, len(dep.Artifacts)),
	}
	for _, art := range dep.Artifacts {
		bundle.Artifacts[export.ConfigDirName+"/"+art.Name] = art.Content
	}
	return bundle, nil
}

func publishTo(ctx context.Context, store publish.Publisher, dep *export.Deployment, name string) error {
	bundle, err := bundleFrom(dep, name)
	if err != nil {
		return err
	}
	loc, err := store.Publish(ctx, bundle)
	if err != nil {
		return err
	}
	fmt.Printf("published %s\n", loc)
	return nil
}

func fatal(op string, err error) {
	logging.ErrorLog(op+" failed", logging.Error(err))
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", op, err)
	os.Exit(1)
}
