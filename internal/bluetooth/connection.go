// This package is built with the assumption that the process will only be
// connected to a single label printer at a time; this will need to be
// ripped up if we want to manage multiple printers at once.
package bluetooth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tinygo.org/x/bluetooth"
)

type characteristicType byte

const (
	service  characteristicType = 0x00
	writer   characteristicType = 0x02
	notifier characteristicType = 0x03
)

func getUUID(t characteristicType) bluetooth.UUID {
	return bluetooth.NewUUID([16]byte{
		0x00, 0x00, 0xff, byte(t), 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0x80, 0x5f, 0x9b, 0x34, 0xfb,
	})
}

// readTimeout bounds how long a status-frame read waits for the device to
// push a notification.
const readTimeout = 30 * time.Second

// Connection is a byte transport over one BLE device: writes go to the
// writer characteristic and reads drain the notifier characteristic.
type Connection struct {
	device    bluetooth.Device
	adapter   *bluetooth.Adapter
	writer    bluetooth.DeviceCharacteristic
	notifier  bluetooth.DeviceCharacteristic
	address   bluetooth.Address
	incoming  chan []byte
	connected bool
}

func newConnection() (*Connection, error) {
	adapter := bluetooth.DefaultAdapter

	if err := adapter.Enable(); err != nil {
		slog.Error("Failed to enable Bluetooth:", "err", err)
		return nil, err
	}

	conn := &Connection{
		adapter:  adapter,
		incoming: make(chan []byte, 8),
	}
	adapter.SetConnectHandler(func(d bluetooth.Device, connected bool) {
		if connected {
			slog.Info("Connected!")
		} else if d.Address == conn.address && conn.connected {
			slog.Info("Disconnected!")
			conn.connected = false
		}
	})

	return conn, nil
}

// FromName scans for an advertising printer with the given local name.
func FromName(name string) (*Connection, error) {
	c, err := newConnection()
	if err != nil {
		return nil, err
	}

	devices := make(chan bluetooth.ScanResult, 1)

	go func() {
		err := c.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			if result.LocalName() == name {
				slog.Info("Found device:",
					"deviceName", result.LocalName(),
				)
				devices <- result
				adapter.StopScan()
			}
		})
		if err != nil {
			slog.Error("Failed to scan for devices:",
				"err", err,
			)
			close(devices)
		}
	}()

	dev, ok := <-devices
	if !ok {
		return nil, errors.New("No devices found")
	}

	c.address = dev.Address
	return c, nil
}

// FromAddress skips scanning and connects to a known address.
func FromAddress(address bluetooth.Address) (*Connection, error) {
	c, err := newConnection()
	if err != nil {
		return nil, err
	}

	c.address = address
	return c, nil
}

// Connect establishes the BLE link, discovers the serial characteristics and
// starts feeding device notifications into the read queue.
func (c *Connection) Connect() error {
	if c.connected {
		return nil
	}

	slog.Debug("Connecting to device...")
	device, err := c.adapter.Connect(c.address, bluetooth.ConnectionParams{})
	if err != nil {
		slog.Error("Failed to connect to device:", "err", err)
		return err
	}

	slog.Debug("Discovering service...")
	services, err := device.DiscoverServices([]bluetooth.UUID{getUUID(service)})
	if err != nil {
		slog.Error("Failed to discover service:", "err", err)
		device.Disconnect()
		return err
	}

	slog.Debug("Discovering characteristics...")
	characteristics, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{getUUID(writer), getUUID(notifier)})
	if err != nil {
		slog.Error("Failed to discover characteristics:", "err", err)
		device.Disconnect()
		return err
	}
	c.writer = characteristics[0]
	c.notifier = characteristics[1]
	c.device = device

	err = c.notifier.EnableNotifications(func(data []byte) {
		frame := append([]byte(nil), data...)
		select {
		case c.incoming <- frame:
		default:
			slog.Warn("Dropping device notification, read queue full",
				"size", len(frame),
			)
		}
	})
	if err != nil {
		slog.Error("Couldn't enable notifications:", "error", err)
		device.Disconnect()
		return err
	}

	c.connected = true
	return nil
}

func (c *Connection) Disconnect() error {
	if c.connected {
		c.connected = false
		return c.device.Disconnect()
	}
	return nil
}

// Write sends one command to the device.
func (c *Connection) Write(data []byte) error {
	if !c.connected {
		return fmt.Errorf("Printer is not connected")
	}

	_, err := c.writer.WriteWithoutResponse(data)
	if err != nil {
		slog.Error("Couldn't write data", "error", err)
	} else {
		slog.Debug("Wrote data to device", "size", len(data))
	}
	return err
}

// Read returns the next notification payload from the device, truncated to
// maxLength bytes.
func (c *Connection) Read(maxLength int) ([]byte, error) {
	if !c.connected {
		return nil, fmt.Errorf("Printer is not connected")
	}

	select {
	case data, ok := <-c.incoming:
		if !ok {
			return nil, fmt.Errorf("Device disconnected while waiting for data")
		}
		if len(data) > maxLength {
			data = data[:maxLength]
		}
		return data, nil
	case <-time.After(readTimeout):
		return nil, fmt.Errorf("Timed out waiting for data from device")
	}
}
