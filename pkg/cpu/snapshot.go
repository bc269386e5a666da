package cpu

import (
	"encoding/gob"
	"os"
)

// Snapshot is a flat, bus-independent record of everything Step needs to
// resume: the full register file, T-state count, and pending-interrupt
// latches (spec.md §6.3). It deliberately excludes the Bus, which the host
// reattaches on restore.
type Snapshot struct {
	Registers  Registers
	TStates    TStates
	PendingNMI bool
	PendingIRQ bool
	DataBus    uint8
	EIShadow   bool
}

func init() {
	gob.Register(Snapshot{})
}

// Snap captures the CPU's current state.
func (c *CPU) Snap() Snapshot {
	return Snapshot{
		Registers:  c.Registers,
		TStates:    c.TStates,
		PendingNMI: c.pendingNMI,
		PendingIRQ: c.pendingIRQ,
		DataBus:    c.dataBus,
		EIShadow:   c.eiShadow,
	}
}

// Restore replaces the CPU's state with a previously captured Snapshot. The
// attached Bus is left untouched.
func (c *CPU) Restore(s Snapshot) {
	c.Registers = s.Registers
	c.TStates = s.TStates
	c.pendingNMI = s.PendingNMI
	c.pendingIRQ = s.PendingIRQ
	c.dataBus = s.DataBus
	c.eiShadow = s.EIShadow
}

// SaveSnapshot writes a Snapshot to path as a single gob-encoded record.
func SaveSnapshot(path string, s Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(s)
}

// LoadSnapshot reads a Snapshot previously written by SaveSnapshot.
func LoadSnapshot(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, err
	}
	defer f.Close()
	var s Snapshot
	if err := gob.NewDecoder(f).Decode(&s); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}
