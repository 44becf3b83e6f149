package main

import "github.com/periphmax/max7301/driver/max7301"

// openBus returns a max7301.Bus selected by the command-line flags and
// a matching closer. Opening an SPI bus is only implemented on
// platforms with a native SPI controller; see bus_spi.go and
// bus_nospi.go.
func openBus(spiName, serialDev string) (max7301.Bus, func() error, error) {
	if serialDev != "" {
		return openSerialBus(serialDev)
	}
	return openSPIBus(spiName)
}
