package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/phil-mansfield/gridconv/io"
	"github.com/phil-mansfield/gridconv/logging"
	"github.com/phil-mansfield/gridconv/preview"
)

func main() {
	// The main function manages input sanitization and calls the secondary
	// main functions for each mode.

	var (
		convert, scenario, inspect string
		exampleConfig, presets, logFile string
		listScenarios, verbose bool
	)

	flag.StringVar(
		&convert, "Convert", "",
		"Configuration file for [Convert] mode.",
	)
	flag.StringVar(
		&scenario, "Scenario", "",
		"Name of a scenario to convert. Scenarios are read from the " +
			"'Presets' file, or the built-in presets if it isn't set.",
	)
	flag.StringVar(
		&inspect, "Inspect", "",
		"Binary grid file whose header and statistics will be printed.",
	)
	flag.BoolVar(
		&listScenarios, "ListScenarios", false,
		"Prints all known scenarios.",
	)
	flag.StringVar(
		&exampleConfig, "ExampleConfig", "",
		"Prints an example configuration file of the specified type to " +
			"stdout. Accepted arguments are 'Convert' and 'Presets'.",
	)
	flag.StringVar(&presets, "Presets", "", "Scenario presets file.")
	flag.StringVar(
		&logFile, "LogFile", "",
		"Log file for 'Scenario' mode. [Convert] files set their own.",
	)
	flag.BoolVar(&verbose, "Verbose", false, "Enables debug logging.")

	flag.Parse()

	modes := map[string]bool{
		"Convert":       convert != "",
		"Scenario":      scenario != "",
		"Inspect":       inspect != "",
		"ListScenarios": listScenarios,
		"ExampleConfig": exampleConfig != "",
	}

	// Figure out the mode and fail with a descriptive error is the user gave
	// incorrect flags.
	modeName, err := getModeName(modes)
	if err != nil { fatal(err) }

	switch modeName {
	case "Convert":
		con, err := io.ReadConvertConfig(convert)
		if err != nil { fatal(err) }
		if err := convertMain(con, verbose); err != nil { fatal(err) }

	case "Scenario":
		log := logging.New(verbose, logFile)
		defer log.Sync()

		pc, err := io.ReadPresetsConfig(presets)
		if err != nil { log.Fatal("Reading presets", zap.Error(err)) }
		s, err := pc.Lookup(scenario)
		if err != nil { log.Fatal("Looking up scenario", zap.Error(err)) }

		if _, err := convertScenario(log, s); err != nil {
			log.Fatal("Conversion failed", zap.Error(err))
		}

	case "Inspect":
		if err := inspectMain(inspect); err != nil { fatal(err) }

	case "ListScenarios":
		pc, err := io.ReadPresetsConfig(presets)
		if err != nil { fatal(err) }
		if err := listMain(pc); err != nil { fatal(err) }

	case "ExampleConfig":
		switch exampleConfig {
		case "Convert":
			fmt.Println(io.ExampleConvertFile)
		case "Presets":
			fmt.Println(io.ExamplePresetsFile)
		default:
			fatal(fmt.Errorf(
				"Unrecognized 'ExampleConfig' argument. Only recognized " +
					"arguments are 'Convert' and 'Presets'.",
			))
		}
	default:
		panic("Impossible")
	}
}

// getModeName returns the name of the mode and fails with a descriptive error
// if the user provided less or more than one mode flag.
func getModeName(modes map[string]bool) (string, error) {
	setNames := []string{}
	for name, set := range modes {
		if set { setNames = append(setNames, name) }
	}

	if len(setNames) == 0 {
		return "", fmt.Errorf("No mode flags have been set.")
	}

	if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The following flags were set: %s, but gridconv " +
				"only accepts one mode at a time.",
			strings.Join(setNames, ", "),
		)
	}

	return setNames[0], nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, color.RedString("gridconv:"), err)
	os.Exit(1)
}

func convertMain(con *io.ConvertConfig, verbose bool) error {
	log := logging.New(verbose, con.LogFile)
	defer log.Sync()

	if err := runConvert(log, con); err != nil {
		log.Error("Conversion failed", zap.Error(err))
		return err
	}
	return nil
}

func runConvert(log *zap.Logger, con *io.ConvertConfig) error {
	if con.ValidProfileFile() {
		prof, err := os.Create(con.ProfileFile)
		if err != nil { return err }
		defer prof.Close()

		if err := pprof.StartCPUProfile(prof); err != nil { return err }
		defer pprof.StopCPUProfile()
	}

	res, err := convertGrid(log, &con.GridConfig)
	if err != nil { return err }

	if con.ValidPreviewFile() {
		err := preview.PlotTransect(
			&res.Grid, res.Vals, con.PreviewRow, con.Name, con.PreviewFile,
		)
		if err != nil { return fmt.Errorf("writing preview: %w", err) }
		preview.Render()
		log.Info("Wrote preview", zap.String("file", con.PreviewFile))
	}

	return nil
}

func inspectMain(fname string) error {
	hd, vals, err := io.ReadGridFile(fname)
	if err != nil { return err }

	g := hd.Grid()
	b := g.Bounds()
	st := preview.NewStats(vals)

	key := color.New(color.FgCyan).SprintFunc()
	fmt.Printf("%s %s\n", key("File:      "), fname)
	fmt.Printf("%s %d x %d\n", key("Cells:     "), hd.Nx, hd.Ny)
	fmt.Printf("%s (%g, %g)\n", key("Origin:    "), hd.OriginX, hd.OriginY)
	fmt.Printf("%s (%g, %g)\n", key("Cell size: "), hd.CellX, hd.CellY)
	fmt.Printf("%s %v\n", key("Bounds:    "), b)
	fmt.Printf("%s min %g, max %g, mean %g\n",
		key("Values:    "), st.Min, st.Max, st.Mean)
	fmt.Printf("%s %d of %d\n", key("No data:   "), st.Zeros, len(vals))
	fmt.Printf("%s %d of %d\n", key("Land:      "), st.Land, len(vals))
	return nil
}

func listMain(pc *io.PresetsConfig) error {
	name := color.New(color.FgGreen, color.Bold).SprintFunc()
	for _, n := range pc.Names() {
		s, err := pc.Lookup(n)
		if err != nil { return err }

		fmt.Printf("%s  %s\n", name(n), s.Description)
		for _, g := range s.Grids() {
			fmt.Printf("    %s -> %s\n", g.Input, g.Output)
		}
	}
	return nil
}
