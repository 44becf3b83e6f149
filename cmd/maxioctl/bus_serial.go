package main

import (
	"github.com/periphmax/max7301/driver/max7301"
	"github.com/periphmax/max7301/driver/max7301/serialbus"
)

func openSerialBus(dev string) (max7301.Bus, func() error, error) {
	b, err := serialbus.Open(dev)
	if err != nil {
		return nil, nil, err
	}
	return b, b.Close, nil
}
