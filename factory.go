// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import (
	"code.hybscloud.com/atomix"
	"github.com/joeycumines/logiface"
)

// Serial is a monotonically increasing channel identifier, unique within
// one [Factory]. Channels built without a factory have serial 0.
type Serial = uint32

// Factory is the shared context for a network of channels: default options,
// a serial counter and traffic statistics. It replaces process-wide
// registries; networks that should not share numbering use separate factories.
//
// A Factory is safe for concurrent use.
type Factory struct {
	opts   []Option
	serial atomix.Uint32
	stats  counters
}

// NewFactory returns a factory whose channels start from opts.
func NewFactory(opts ...Option) *Factory {
	return &Factory{opts: opts}
}

// nextSerial returns the next monotonically increasing serial.
func (f *Factory) nextSerial() Serial {
	return f.serial.Add(1)
}

// Stats returns a snapshot of the factory's counters.
func (f *Factory) Stats() Stats {
	return Stats{
		Channels:   f.stats.channels.Load(),
		Reads:      f.stats.reads.Load(),
		Writes:     f.stats.writes.Load(),
		Poisons:    f.stats.poisons.Load(),
		Selections: f.stats.selections.Load(),
	}
}

// NewAlternative returns an [Alternative] whose selections are counted in
// the factory's Stats.
func (f *Factory) NewAlternative(guards ...Guard) *Alternative {
	a := NewAlternative(guards...)
	a.stats = &f.stats
	return a
}

// Stats are cumulative counters over all channels of a Factory.
type Stats struct {
	Channels   uint64
	Reads      uint64
	Writes     uint64
	Poisons    uint64
	Selections uint64
}

type counters struct {
	channels   atomix.Uint64
	reads      atomix.Uint64
	writes     atomix.Uint64
	poisons    atomix.Uint64
	selections atomix.Uint64
}

// chanInfo is the per-channel identity and instrumentation shared by the
// channel cores. stats is nil for channels built without a factory.
type chanInfo struct {
	logger *logiface.Logger[logiface.Event]
	stats  *counters
	serial Serial
}

func newChanInfo(c *config) chanInfo {
	info := chanInfo{logger: c.logger}
	if c.factory != nil {
		info.serial = c.factory.nextSerial()
		info.stats = &c.factory.stats
		info.stats.channels.Add(1)
	}
	return info
}

func (i *chanInfo) countRead() {
	if i.stats != nil {
		i.stats.reads.Add(1)
	}
}

func (i *chanInfo) countWrite() {
	if i.stats != nil {
		i.stats.writes.Add(1)
	}
}

func (i *chanInfo) poisoned(strength int, s side) {
	if i.stats != nil {
		i.stats.poisons.Add(1)
	}
	i.logger.Debug().
		Uint64("channel", uint64(i.serial)).
		Int("strength", strength).
		Str("side", s.String()).
		Log("channel poisoned")
}
