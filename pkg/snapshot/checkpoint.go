package snapshot

import (
	"encoding/gob"
	"encoding/json"
	"io"
	"os"

	"github.com/oisee/gb-core/pkg/cpu"
	"github.com/oisee/gb-core/pkg/inst"
)

// Snapshot holds CPU state for resuming a run against the same ROM.
type Snapshot struct {
	ROMSize int
	State   cpu.State
	Steps   []cpu.Result // Steps taken before the snapshot, oldest first
}

func init() {
	// Register types for gob encoding
	gob.Register(cpu.State{})
	gob.Register(inst.Fields{})
}

// Take captures the current state of c together with its step history.
func Take(c *cpu.Cpu, h *History) *Snapshot {
	s := &Snapshot{
		ROMSize: len(c.Image()),
		State:   c.State(),
	}
	if h != nil {
		s.Steps = h.Steps()
	}
	return s
}

// Save writes a snapshot to a file.
func Save(path string, s *Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(s)
}

// Load reads a snapshot from a file.
func Load(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var s Snapshot
	if err := gob.NewDecoder(f).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// WriteJSON writes s as indented JSON.
func WriteJSON(w io.Writer, s *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// ReadJSON reads a snapshot written by WriteJSON.
func ReadJSON(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}
