// Package config owns the simulation parameter record and the file paths
// every tool reads from and writes to.
//
// The parameter record (input_variables.bin) is 48 bytes, little-endian:
//
//	int32 L | nreplicas | nsweeps | mag_output_int | grid_output_int |
//	threads_per_block | gpu_device | gpu_method | float64 beta | h
//
// The same fields can be edited as YAML and converted back.
package config

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/haricheung/magsample/internal/types"
)

// SimulationSize is the encoded size of the parameter record.
const SimulationSize = 8*4 + 2*8

// maxCatalogRecords bounds the catalog a run will try to hold in memory.
const maxCatalogRecords = 1 << 31

// Default returns the parameters the simulation ships with.
func Default() types.Simulation {
	return types.Simulation{
		L:                  64,
		NReplicas:          100,
		NSweeps:            50000,
		MagOutputInterval:  100,
		GridOutputInterval: 100,
		ThreadsPerBlock:    32,
		GPUDevice:          0,
		GPUMethod:          0,
		Beta:               0.54,
		H:                  0.07,
	}
}

// DecodeSimulation reads one parameter record from r.
//
// Expectations:
//   - Reads exactly SimulationSize bytes
//   - Returns ErrRecordTruncated when r is shorter
func DecodeSimulation(r io.Reader) (types.Simulation, error) {
	var sim types.Simulation
	if err := binary.Read(r, binary.LittleEndian, &sim); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return sim, fmt.Errorf("simulation record: %w", types.ErrRecordTruncated)
		}
		return sim, fmt.Errorf("simulation record: %w", err)
	}
	return sim, nil
}

// EncodeSimulation writes sim as one parameter record.
func EncodeSimulation(w io.Writer, sim types.Simulation) error {
	return binary.Write(w, binary.LittleEndian, sim)
}

// ReadSimulation loads the parameter record at path.
// A missing or unreadable file is ErrConfigUnavailable.
func ReadSimulation(path string) (types.Simulation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Simulation{}, fmt.Errorf("open %s (run `magsample config init` first): %w: %v",
			path, types.ErrConfigUnavailable, err)
	}
	sim, err := DecodeSimulation(bytes.NewReader(data))
	if err != nil {
		return sim, fmt.Errorf("%s: %w", path, err)
	}
	return sim, nil
}

// WriteSimulation replaces the parameter record at path.
func WriteSimulation(path string, sim types.Simulation) error {
	var buf bytes.Buffer
	if err := EncodeSimulation(&buf, sim); err != nil {
		return fmt.Errorf("encode simulation: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Validate checks the fields the post-processing tools depend on.
//
// Expectations:
//   - Rejects L <= 0, nreplicas <= 0 and nsweeps < 100 with ErrConfigUnavailable
//   - Rejects a catalog too large to hold with ErrAllocationFailure
func Validate(sim types.Simulation) error {
	switch {
	case sim.L <= 0:
		return fmt.Errorf("L = %d: %w", sim.L, types.ErrConfigUnavailable)
	case sim.NReplicas <= 0:
		return fmt.Errorf("nreplicas = %d: %w", sim.NReplicas, types.ErrConfigUnavailable)
	case sim.NSweeps < types.SliceInterval:
		return fmt.Errorf("nsweeps = %d, need at least %d: %w", sim.NSweeps, types.SliceInterval, types.ErrConfigUnavailable)
	}
	if n := int64(sim.NReplicas) * int64(sim.NSweeps/types.SliceInterval); n > maxCatalogRecords {
		return fmt.Errorf("catalog of %d records: %w", n, types.ErrAllocationFailure)
	}
	return nil
}

// MarshalYAML renders sim in its editable form.
func MarshalYAML(sim types.Simulation) ([]byte, error) {
	return yaml.Marshal(sim)
}

// UnmarshalYAML parses the editable form. Fields missing from data keep the
// values from Default.
func UnmarshalYAML(data []byte) (types.Simulation, error) {
	sim := Default()
	if err := yaml.Unmarshal(data, &sim); err != nil {
		return sim, fmt.Errorf("parse simulation yaml: %w", err)
	}
	return sim, nil
}
