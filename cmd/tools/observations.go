package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	shared "renewables-dashboard/internal/shared/types"
)

type observation = shared.Observation

func readObservationsFile(path string) ([]observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readObservations(f)
}

// readObservations decodes a JSON array of observations and validates each
// one, reporting the index of the first invalid entry.
func readObservations(r io.Reader) ([]observation, error) {
	var out []observation
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode observations: %w", err)
	}
	for i, obs := range out {
		if err := obs.Validate(); err != nil {
			return nil, fmt.Errorf("observation %d: %w", i, err)
		}
	}
	return out, nil
}

// forEachObservation stops at the first failure and returns how many
// observations were handled before it.
func forEachObservation(observations []observation, fn func(i int, obs observation) error) (int, error) {
	for i, obs := range observations {
		if err := fn(i, obs); err != nil {
			return i, fmt.Errorf("observation %d (%s): %w", i, obs.Site, err)
		}
	}
	return len(observations), nil
}
