package pet

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Record is the persisted save shape
type Record struct {
	Version         int       `json:"version"`
	PetName         string    `json:"petName,omitempty"`
	Stage           Stage     `json:"stage"`
	Stats           Stats     `json:"stats"`
	TotalPlayTimeMs int64     `json:"totalPlayTimeMs"`
	IsSleeping      bool      `json:"isSleeping"`
	LastSaved       time.Time `json:"lastSaved"`
}

// rawRecord mirrors Record with pointers so missing fields can be told apart from zeros
type rawRecord struct {
	Version *int    `json:"version"`
	PetName string  `json:"petName"`
	Stage   *string `json:"stage"`
	Stats   *struct {
		Hunger      *int `json:"hunger"`
		Happiness   *int `json:"happiness"`
		Cleanliness *int `json:"cleanliness"`
	} `json:"stats"`
	TotalPlayTimeMs *int64     `json:"totalPlayTimeMs"`
	IsSleeping      *bool      `json:"isSleeping"`
	LastSaved       *time.Time `json:"lastSaved"`
}

// NewRecord builds the save record for a state
func NewRecord(s State, savedAt time.Time) Record {
	return Record{
		Version:         CurrentVersion,
		PetName:         s.Name,
		Stage:           s.Stage,
		Stats:           s.Stats,
		TotalPlayTimeMs: s.TotalPlayTimeMs,
		IsSleeping:      s.Sleeping,
		LastSaved:       savedAt.UTC(),
	}
}

// State returns the simulation state held by the record
func (r Record) State() State {
	return State{
		Name:            r.PetName,
		Stats:           r.Stats,
		Stage:           r.Stage,
		TotalPlayTimeMs: r.TotalPlayTimeMs,
		Sleeping:        r.IsSleeping,
	}
}

// EncodeRecord serializes a record
func EncodeRecord(r Record) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// DecodeRecord parses and shape-checks a persisted record. Stat values are
// adopted as stored; only their presence and type are checked.
func DecodeRecord(data []byte) (Record, error) {
	var raw rawRecord
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return Record{}, fmt.Errorf("parse record: %w", err)
	}
	if dec.More() {
		return Record{}, errors.New("trailing data after record")
	}

	switch {
	case raw.Version == nil:
		return Record{}, errors.New("missing version")
	case *raw.Version < 1 || *raw.Version > CurrentVersion:
		return Record{}, fmt.Errorf("unsupported version %d", *raw.Version)
	case raw.Stage == nil:
		return Record{}, errors.New("missing stage")
	case raw.Stats == nil:
		return Record{}, errors.New("missing stats")
	case raw.Stats.Hunger == nil || raw.Stats.Happiness == nil || raw.Stats.Cleanliness == nil:
		return Record{}, errors.New("incomplete stats")
	case raw.TotalPlayTimeMs == nil:
		return Record{}, errors.New("missing totalPlayTimeMs")
	case *raw.TotalPlayTimeMs < 0:
		return Record{}, fmt.Errorf("negative totalPlayTimeMs %d", *raw.TotalPlayTimeMs)
	case raw.IsSleeping == nil:
		return Record{}, errors.New("missing isSleeping")
	}

	stage, err := ParseStage(*raw.Stage)
	if err != nil {
		return Record{}, err
	}

	r := Record{
		Version: *raw.Version,
		PetName: raw.PetName,
		Stage:   stage,
		Stats: Stats{
			Hunger:      *raw.Stats.Hunger,
			Happiness:   *raw.Stats.Happiness,
			Cleanliness: *raw.Stats.Cleanliness,
		},
		TotalPlayTimeMs: *raw.TotalPlayTimeMs,
		IsSleeping:      *raw.IsSleeping,
	}
	if raw.LastSaved != nil {
		r.LastSaved = *raw.LastSaved
	}
	return r, nil
}
