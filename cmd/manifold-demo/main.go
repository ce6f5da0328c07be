package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/manifold-lang/gomanifold/pkg/compiler"
	"github.com/manifold-lang/gomanifold/pkg/fluids"
	"github.com/manifold-lang/gomanifold/pkg/logging"
	"github.com/manifold-lang/gomanifold/pkg/schematic"
	"github.com/manifold-lang/gomanifold/pkg/solver"
)

func main() {
	precision := flag.Float64("precision", solver.DefaultPrecision, "delta handed to the decision procedure")
	fluidsPath := flag.String("fluids", "", "optional YAML fluid library overlay")
	out := flag.String("out", "", "write the solved IR document to this file (default stdout)")
	dumpSMT := flag.Bool("dump-smt2", false, "print the generated SMT-LIB2 before solving")
	flag.Parse()

	fmt.Println("🧪 Manifold Demo - droplet generator")
	fmt.Println("====================================")

	opts := []schematic.Option{}
	if *fluidsPath != "" {
		lib, err := fluids.Load(*fluidsPath)
		if err != nil {
			log.Fatalf("Failed to load fluid library: %v", err)
		}
		opts = append(opts, schematic.WithFluids(lib))
	}

	s, err := buildDropletGenerator(opts)
	if err != nil {
		log.Fatalf("Failed to build schematic: %v", err)
	}
	fmt.Printf("✅ Schematic built: %d entities, %d channels\n", s.NumNodes(), s.NumChannels())

	logr := logging.Default()
	c := compiler.New(
		compiler.WithPrecision(*precision),
		compiler.WithLogger(logr),
		compiler.WithIRName("droplet-generator"),
	)

	f, err := c.Translate(s)
	if err != nil {
		log.Fatalf("Translation failed: %v", err)
	}
	fmt.Printf("✅ Translated: %d constraints over %d variables\n", f.Len(), len(f.Vars()))
	if *dumpSMT {
		fmt.Println("\n--- SMT-LIB2 ---")
		fmt.Println(f.SMTLib())
		fmt.Println("--- end ---")
	}

	d := &solver.DReal{}
	if !d.Available() {
		fmt.Println("\n⚠️  dreal binary not found on PATH; skipping solve")
		fmt.Println("   Install dReal and re-run to produce a solved IR document")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	fmt.Printf("\n⏳ Solving with precision %g...\n", *precision)
	doc, err := c.Export(ctx, s)
	if err != nil {
		if errors.Is(err, solver.ErrUnsatisfiable) {
			log.Fatal("No consistent physical configuration exists for this schematic")
		}
		log.Fatalf("Solve failed: %v", err)
	}
	fmt.Println("✅ delta-sat: projecting intervals into the IR")

	w := os.Stdout
	if *out != "" {
		file, err := os.Create(*out)
		if err != nil {
			log.Fatalf("Failed to create output file: %v", err)
		}
		defer file.Close()
		w = file
	}
	if err := doc.Encode(w); err != nil {
		log.Fatalf("Failed to encode document: %v", err)
	}
	if *out != "" {
		fmt.Printf("✅ IR written to %s\n", *out)
	}
}

// buildDropletGenerator wires the reference chip: a continuous oil
// stream and a dispersed aqueous stream meeting at a t-junction that
// pinches droplets into the output channel.
func buildDropletGenerator(opts []schematic.Option) (*schematic.Schematic, error) {
	s, err := schematic.New(schematic.Bounds{XMin: 0, YMin: 0, XMax: 0.05, YMax: 0.05}, opts...)
	if err != nil {
		return nil, err
	}

	if err := s.AddPort(schematic.PortSpec{
		Name: "oil", Kind: "input", Fluid: "mineraloil",
		MinFlowRate: schematic.Float(5e-9),
	}); err != nil {
		return nil, err
	}
	if err := s.AddPort(schematic.PortSpec{
		Name: "aq", Kind: "input", Fluid: "water",
		MinFlowRate: schematic.Float(1e-9),
	}); err != nil {
		return nil, err
	}
	if err := s.AddNode(schematic.NodeSpec{Name: "tj", Kind: "t-junction"}); err != nil {
		return nil, err
	}
	if err := s.AddPort(schematic.PortSpec{Name: "sink", Kind: "output"}); err != nil {
		return nil, err
	}

	if err := s.AddChannel(schematic.ChannelSpec{
		From: "oil", To: "tj", Phase: "continuous",
		MinWidth:  schematic.Float(5e-5),
		MinHeight: schematic.Float(2e-5),
	}); err != nil {
		return nil, err
	}
	if err := s.AddChannel(schematic.ChannelSpec{
		From: "aq", To: "tj", Phase: "dispersed",
		MinWidth: schematic.Float(3e-5),
	}); err != nil {
		return nil, err
	}
	if err := s.AddChannel(schematic.ChannelSpec{
		From: "tj", To: "sink", Phase: "output",
		MinLength: schematic.Float(0.005),
	}); err != nil {
		return nil, err
	}
	return s, nil
}
