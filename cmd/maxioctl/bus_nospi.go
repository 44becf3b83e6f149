//go:build !linux

package main

import (
	"errors"

	"github.com/periphmax/max7301/driver/max7301"
)

func openSPIBus(name string) (max7301.Bus, func() error, error) {
	return nil, nil, errors.New("maxioctl: native SPI is only supported on linux; use -serial")
}
