//go:build midi

package main

import (
	"fmt"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// openMIDI opens the first rtmidi output whose name contains name
// (case-insensitive) and returns a sender for it.
func openMIDI(name string) (func(midi.Message) error, func(), error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, nil, fmt.Errorf("rtmididrv: %w", err)
	}

	outs, err := drv.Outs()
	if err != nil {
		drv.Close()
		return nil, nil, fmt.Errorf("list outputs: %w", err)
	}

	var found drivers.Out
	for _, out := range outs {
		logger.Debug("midi: output found", "device", out.String())
		if strings.Contains(strings.ToLower(out.String()), strings.ToLower(name)) {
			found = out
			break
		}
	}
	if found == nil {
		drv.Close()
		return nil, nil, fmt.Errorf("output %q not found", name)
	}

	send, err := midi.SendTo(found)
	if err != nil {
		drv.Close()
		return nil, nil, fmt.Errorf("open %q: %w", found.String(), err)
	}
	logger.Info("midi: output opened", "device", found.String())

	return send, func() {
		_ = found.Close()
		drv.Close()
	}, nil
}
