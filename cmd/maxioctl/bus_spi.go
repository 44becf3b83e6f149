//go:build linux

package main

import (
	"github.com/periphmax/max7301/driver/max7301"
	"github.com/periphmax/max7301/driver/max7301/spibus"
)

func openSPIBus(name string) (max7301.Bus, func() error, error) {
	b, err := spibus.Open(name)
	if err != nil {
		return nil, nil, err
	}
	return b, b.Close, nil
}
