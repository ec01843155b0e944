package io

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/gridconv"
)

const (
	ExampleConvertFile = `[Convert]

#######################
# Required Parameters #
#######################

# Source file. NetCDF classic files (.nc, .cdf, .grd) must contain 1D x and y
# axes and a 2D z[y][x] field (or lon, lat, and elevation, in which case
# degrees are converted to meters). Text tables (.xyz, .txt, .dat) must have
# x, y, and z in their first three columns.
Input = path/to/bathymetry.nc

# Binary grid file which will be written.
Output = path/to/bathymetry.bin

#######################
# Optional Parameters #
#######################

# Any geometry parameter which is left out is taken from the input grid. A
# count or domain size of 0 is also taken from the input grid. All lengths are
# in meters.

# Number of output cells along each axis.
# Nx = 700
# Ny = 400

# Lower-left corner of the output domain.
# OriginX = -500000
# OriginY = -450000

# Physical size of the output domain.
# DomainWidth = 1400000
# DomainHeight = 800000

# Writes a quick-look plot of one row of the output grid. PreviewRow defaults
# to the middle row. Requires python and matplotlib.
# PreviewFile = row.png
# PreviewRow = 200

# Output files which are useful for profiling and debugging. Generally, there
# isn't a reason to use these unless something goes wrong.
# ProfileFile = prof.out
# LogFile = log.out`

	ExamplePresetsFile = `# Each [Grid] describes one conversion and each [Scenario] pairs a bathymetry
# grid with an (optional) displacement grid. Grid geometry parameters work
# exactly as they do in a [Convert] file.

[Scenario "tohoku-downscale"]
Description = Tohoku Downscale (700x400)
Bathymetry = tohoku_downscale_bath
Displacement = tohoku_full_displ

[Scenario "tohoku-zoomed"]
Description = Tohoku Zoomed (700x400)
Bathymetry = tohoku_zoomed_bath
Displacement = tohoku_full_displ

[Scenario "chile-downscale"]
Description = Chile Downscale (800x600)
Bathymetry = chile_downscale_bath
Displacement = chile_displ

[Grid "tohoku_downscale_bath"]
Input = tohoku_gebco_ucsb3_2000m_hawaii_bath.nc
Output = tohoku_downscale_bath.bin
Nx = 700
Ny = 400

[Grid "tohoku_zoomed_bath"]
Input = tohoku_gebco_ucsb3_2000m_hawaii_bath.nc
Output = tohoku_zoomed_bath.bin
Nx = 700
Ny = 400
OriginX = -500000
OriginY = -450000
DomainWidth = 1400000
DomainHeight = 800000

[Grid "tohoku_full_displ"]
Input = tohoku_gebco_ucsb3_2000m_hawaii_displ.nc
Output = tohoku_full_displ.bin

[Grid "chile_downscale_bath"]
Input = chile_gebco_usgs_2000m_bath.nc
Output = chile_downscale_bath.bin
Nx = 800
Ny = 600

[Grid "chile_displ"]
Input = chile_gebco_usgs_2000m_displ.nc
Output = chile_displ.bin
Nx = 555
Ny = 555`
)

// OptInt is an integer parameter which may be left out of a config file.
type OptInt struct {
	Val int
	Set bool
}

func (o *OptInt) UnmarshalText(text []byte) error {
	n, err := strconv.Atoi(strings.TrimSpace(string(text)))
	if err != nil { return err }
	o.Val, o.Set = n, true
	return nil
}

// Ptr returns nil if o was never set.
func (o OptInt) Ptr() *int {
	if !o.Set { return nil }
	return gridconv.Int(o.Val)
}

// OptFloat is a float parameter which may be left out of a config file.
type OptFloat struct {
	Val float64
	Set bool
}

func (o *OptFloat) UnmarshalText(text []byte) error {
	x, err := strconv.ParseFloat(strings.TrimSpace(string(text)), 64)
	if err != nil { return err }
	o.Val, o.Set = x, true
	return nil
}

// Ptr returns nil if o was never set.
func (o OptFloat) Ptr() *float64 {
	if !o.Set { return nil }
	return gridconv.Float(o.Val)
}

type GridConfig struct {
	// Required
	Input, Output string

	// Optional
	Nx, Ny OptInt
	OriginX, OriginY OptFloat
	DomainWidth, DomainHeight OptFloat

	// Optional, "undocumented"
	Name string
}

func (con *GridConfig) ValidInput() bool {
	return con.Input != ""
}
func (con *GridConfig) ValidOutput() bool {
	return con.Output != ""
}
func (con *GridConfig) ValidNx() bool {
	return !con.Nx.Set || con.Nx.Val >= 0
}
func (con *GridConfig) ValidNy() bool {
	return !con.Ny.Set || con.Ny.Val >= 0
}
func (con *GridConfig) ValidDomainWidth() bool {
	return !con.DomainWidth.Set || con.DomainWidth.Val >= 0
}
func (con *GridConfig) ValidDomainHeight() bool {
	return !con.DomainHeight.Set || con.DomainHeight.Val >= 0
}

// CheckInit validates the grid and records its name.
func (con *GridConfig) CheckInit(name string) error {
	if !con.ValidInput() {
		return fmt.Errorf("Invalid/non-existent 'Input' value for Grid '%s'.", name)
	} else if !con.ValidOutput() {
		return fmt.Errorf("Invalid/non-existent 'Output' value for Grid '%s'.", name)
	} else if !con.ValidNx() {
		return fmt.Errorf(
			"Nx of Grid '%s' must not be negative, but is %d.", name, con.Nx.Val,
		)
	} else if !con.ValidNy() {
		return fmt.Errorf(
			"Ny of Grid '%s' must not be negative, but is %d.", name, con.Ny.Val,
		)
	} else if !con.ValidDomainWidth() {
		return fmt.Errorf(
			"DomainWidth of Grid '%s' must not be negative, but is %g.",
			name, con.DomainWidth.Val,
		)
	} else if !con.ValidDomainHeight() {
		return fmt.Errorf(
			"DomainHeight of Grid '%s' must not be negative, but is %g.",
			name, con.DomainHeight.Val,
		)
	}

	con.Name = name
	return nil
}

// TargetSpec returns the resampling target described by con.
func (con *GridConfig) TargetSpec() *gridconv.TargetSpec {
	return &gridconv.TargetSpec{
		Nx: con.Nx.Ptr(), Ny: con.Ny.Ptr(),
		OriginX: con.OriginX.Ptr(), OriginY: con.OriginY.Ptr(),
		Width: con.DomainWidth.Ptr(), Height: con.DomainHeight.Ptr(),
	}
}

type ConvertConfig struct {
	GridConfig

	// Optional
	PreviewFile string
	PreviewRow int
	LogFile, ProfileFile string
}

func (con *ConvertConfig) ValidPreviewFile() bool {
	return con.PreviewFile != ""
}
func (con *ConvertConfig) ValidLogFile() bool {
	return con.LogFile != ""
}
func (con *ConvertConfig) ValidProfileFile() bool {
	return con.ProfileFile != ""
}

type ConvertWrapper struct {
	Convert ConvertConfig
}

func DefaultConvertWrapper() *ConvertWrapper {
	con := ConvertConfig{}
	con.PreviewRow = -1
	return &ConvertWrapper{con}
}

// ReadConvertConfig reads and validates a [Convert] file.
func ReadConvertConfig(fname string) (*ConvertConfig, error) {
	wrap := DefaultConvertWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil { return nil, err }

	con := &wrap.Convert
	if err := con.CheckInit("Convert"); err != nil { return nil, err }
	return con, nil
}

type ScenarioConfig struct {
	// Required
	Bathymetry string

	// Optional
	Displacement string
	Description string
}

// Scenario is a bathymetry grid paired with an optional displacement grid.
type Scenario struct {
	Name, Description string
	Bathymetry, Displacement *GridConfig
}

type PresetsConfig struct {
	Scenario map[string]*ScenarioConfig
	Grid map[string]*GridConfig
}

// ReadPresetsConfig reads a presets file. If fname is empty, the built-in
// presets in ExamplePresetsFile are used.
func ReadPresetsConfig(fname string) (*PresetsConfig, error) {
	pc := &PresetsConfig{}

	var err error
	if fname == "" {
		err = gcfg.ReadStringInto(pc, ExamplePresetsFile)
	} else {
		err = gcfg.ReadFileInto(pc, fname)
	}
	if err != nil { return nil, err }

	for name, grid := range pc.Grid {
		if err := grid.CheckInit(name); err != nil { return nil, err }
	}
	return pc, nil
}

// Names returns the names of all scenarios in alphabetical order.
func (pc *PresetsConfig) Names() []string {
	names := make([]string, 0, len(pc.Scenario))
	for name := range pc.Scenario { names = append(names, name) }
	sort.Strings(names)
	return names
}

// Lookup returns the named scenario with its grids resolved.
func (pc *PresetsConfig) Lookup(name string) (*Scenario, error) {
	sc, ok := pc.Scenario[name]
	if !ok {
		return nil, fmt.Errorf(
			"Scenario '%s' not found. Known scenarios are: %s.",
			name, strings.Join(pc.Names(), ", "),
		)
	}

	s := &Scenario{Name: name, Description: sc.Description}
	if s.Description == "" { s.Description = name }

	var err error
	if s.Bathymetry, err = pc.grid(name, "Bathymetry", sc.Bathymetry); err != nil {
		return nil, err
	}
	if sc.Displacement != "" {
		s.Displacement, err = pc.grid(name, "Displacement", sc.Displacement)
		if err != nil { return nil, err }
	}

	return s, nil
}

func (pc *PresetsConfig) grid(scenario, field, name string) (*GridConfig, error) {
	if name == "" {
		return nil, fmt.Errorf(
			"Need to specify '%s' for Scenario '%s'.", field, scenario,
		)
	}
	g, ok := pc.Grid[name]
	if !ok {
		return nil, fmt.Errorf(
			"%s of Scenario '%s' refers to unknown Grid '%s'.",
			field, scenario, name,
		)
	}
	return g, nil
}

// Grids returns the scenario's grids in conversion order.
func (s *Scenario) Grids() []*GridConfig {
	if s.Displacement == nil { return []*GridConfig{s.Bathymetry} }
	return []*GridConfig{s.Bathymetry, s.Displacement}
}
