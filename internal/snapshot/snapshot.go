// Package snapshot persists simulation results so that separate CLI
// invocations can hand tables to each other and merge them later.
package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hyp3rd/ewrap"

	"github.com/alexshd/couponbench"
)

// FormatVersion is written into every snapshot.
const FormatVersion = 1

var (
	// ErrParamCannotBeEmpty is returned when a required parameter is empty.
	ErrParamCannotBeEmpty = ewrap.New("param cannot be empty")

	// ErrSerializerNotFound is returned for an unknown snapshot format.
	ErrSerializerNotFound = ewrap.New("serializer not found")

	// ErrIncompatible is returned when snapshots of different experiments are merged.
	ErrIncompatible = ewrap.New("incompatible snapshots")

	// ErrUnsupportedVersion is returned for snapshots written by a newer format.
	ErrUnsupportedVersion = ewrap.New("unsupported snapshot version")
)

// Snapshot is the serialized form of a couponbench.Result.
type Snapshot struct {
	Version   int                     `json:"version" msgpack:"version"`
	CreatedAt time.Time               `json:"created_at" msgpack:"created_at"`
	Config    couponbench.Config      `json:"config" msgpack:"config"`
	Arrivals  int64                   `json:"arrivals" msgpack:"arrivals"`
	Dropped   int64                   `json:"dropped" msgpack:"dropped"`
	Waits     []couponbench.Frequency `json:"waits" msgpack:"waits"`
}

// FromResult captures res.
func FromResult(res *couponbench.Result) *Snapshot {
	return &Snapshot{
		Version:   FormatVersion,
		CreatedAt: time.Now().UTC(),
		Config:    res.Config,
		Arrivals:  res.Arrivals,
		Dropped:   res.Dropped,
		Waits:     res.Table.Entries(),
	}
}

// Table rebuilds the frequency table.
func (s *Snapshot) Table() *couponbench.FrequencyTable {
	ft := couponbench.NewFrequencyTable()
	for _, f := range s.Waits {
		ft.AddN(f.Value, f.Count)
	}
	return ft
}

// Result rebuilds a couponbench.Result. Window statistics are not stored.
func (s *Snapshot) Result() *couponbench.Result {
	return &couponbench.Result{
		Config:   s.Config,
		Table:    s.Table(),
		Arrivals: s.Arrivals,
		Dropped:  s.Dropped,
	}
}

// FormatFor picks a format from a file extension: ".json" selects json,
// anything else msgpack.
func FormatFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return "json"
	}
	return "msgpack"
}

// Save writes s to path in the format implied by its extension.
func Save(path string, s *Snapshot) error {
	ser, err := NewRegistry().New(FormatFor(path))
	if err != nil {
		return err
	}

	data, err := ser.Marshal(s)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ewrap.Wrapf(err, "write snapshot %s", path)
	}
	return nil
}

// Load reads a snapshot written by Save.
func Load(path string) (*Snapshot, error) {
	ser, err := NewRegistry().New(FormatFor(path))
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ewrap.Wrapf(err, "read snapshot %s", path)
	}

	var s Snapshot
	if err := ser.Unmarshal(data, &s); err != nil {
		return nil, ewrap.Wrapf(err, "decode snapshot %s", path)
	}
	if s.Version > FormatVersion {
		return nil, ewrap.Wrapf(ErrUnsupportedVersion, "%s: version %d", path, s.Version)
	}
	if err := s.normalize(); err != nil {
		return nil, ewrap.Wrapf(err, "snapshot %s", path)
	}
	return &s, nil
}

// normalize resolves policy aliases and validates the stored config.
func (s *Snapshot) normalize() error {
	policy, err := couponbench.ParsePolicy(string(s.Config.Policy))
	if err != nil {
		return err
	}
	s.Config.Policy = policy
	return s.Config.Validate()
}

// Merge combines snapshots of the same experiment (same n and policy).
// Repetitions and arrivals add up; the first snapshot's seed is kept.
func Merge(snaps ...*Snapshot) (*couponbench.Result, error) {
	if len(snaps) == 0 {
		return nil, ewrap.Wrap(ErrParamCannotBeEmpty, "snapshots")
	}

	var (
		first couponbench.Config
		res   *couponbench.Result
	)

	for i, snap := range snaps {
		s := *snap
		if err := s.normalize(); err != nil {
			return nil, ewrap.Wrapf(err, "snapshot %d", i)
		}

		if i == 0 {
			first = s.Config
			res = &couponbench.Result{Config: first, Table: couponbench.NewFrequencyTable()}
			res.Config.Repetitions = 0
		}
		if s.Config.N != first.N || s.Config.Policy != first.Policy {
			return nil, ewrap.Wrapf(ErrIncompatible,
				"snapshot %d has n=%d policy=%s, want n=%d policy=%s",
				i, s.Config.N, s.Config.Policy, first.N, first.Policy)
		}

		res.Table.Merge(s.Table())
		res.Arrivals += s.Arrivals
		res.Dropped += s.Dropped
		res.Config.Repetitions += s.Config.Repetitions
	}
	return res, nil
}
