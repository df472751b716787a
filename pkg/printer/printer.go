package printer

import (
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/dukapos/register-api/pkg/logger"
	"go.uber.org/zap"
)

// Printer sends raw ESC/POS data to the register's receipt printer. A
// receipt and its drawer kick must reach the device as one uninterrupted
// job, so implementations serialize Print calls.
type Printer interface {
	// Print sends one complete print job to the printer.
	Print(data []byte) error
	// Close releases the printer connection/handle.
	Close() error
	// IsConnected reports whether the device is reachable.
	IsConnected() bool
}

const (
	dialTimeout  = 5 * time.Second
	writeTimeout = 10 * time.Second
)

// --- USB printer (writes to a device file, e.g. /dev/usb/lp0) ---

type usbPrinter struct {
	mu   sync.Mutex
	path string
}

// NewUSBPrinter creates a printer that writes to a USB device file. The
// device is opened per job so a reseated cable recovers without a restart.
func NewUSBPrinter(devicePath string) Printer {
	return &usbPrinter{path: devicePath}
}

func (p *usbPrinter) Print(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: open %s: %w", p.path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.path, err)
	}
	return nil
}

func (p *usbPrinter) Close() error { return nil }

func (p *usbPrinter) IsConnected() bool {
	_, err := os.Stat(p.path)
	return err == nil
}

// --- Network printer (raw TCP, conventionally port 9100) ---

type networkPrinter struct {
	mu      sync.Mutex
	address string
}

// NewNetworkPrinter creates a printer that dials TCP per job. Address
// includes the port, e.g. "192.168.1.50:9100".
func NewNetworkPrinter(address string) Printer {
	return &networkPrinter{address: address}
}

func (p *networkPrinter) Print(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	// A receipt that silently vanishes is the failure cashiers report, so
	// one retry on a fresh connection before giving up.
	err := p.send(data)
	if err != nil {
		logger.Log.Warn("receipt printer write failed, retrying",
			zap.String("address", p.address), zap.Error(err))
		err = p.send(data)
	}
	return err
}

func (p *networkPrinter) send(data []byte) error {
	conn, err := net.DialTimeout("tcp", p.address, dialTimeout)
	if err != nil {
		return fmt.Errorf("printer: connect %s: %w", p.address, err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.address, err)
	}
	return nil
}

func (p *networkPrinter) Close() error { return nil }

func (p *networkPrinter) IsConnected() bool {
	conn, err := net.DialTimeout("tcp", p.address, 2*time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// --- Null printer (no hardware; dev and test environments) ---

type nullPrinter struct{}

// NewNullPrinter creates a printer that swallows jobs, logging their size
// so a dev setup can still see that a receipt was produced.
func NewNullPrinter() Printer {
	return &nullPrinter{}
}

func (p *nullPrinter) Print(data []byte) error {
	logger.Log.Debug("receipt discarded, no printer configured",
		zap.Int("bytes", len(data)))
	return nil
}

func (p *nullPrinter) Close() error { return nil }

func (p *nullPrinter) IsConnected() bool { return false }

// NewPrinterFromConfig creates the Printer matching the configured type:
// "usb", "network", or "none".
func NewPrinterFromConfig(printerType, usbPath, address string) (Printer, error) {
	switch printerType {
	case "usb":
		if usbPath == "" {
			return nil, fmt.Errorf("printer: USB path is required for usb printer type")
		}
		return NewUSBPrinter(usbPath), nil
	case "network":
		if address == "" {
			return nil, fmt.Errorf("printer: address is required for network printer type")
		}
		return NewNetworkPrinter(address), nil
	case "none", "":
		return NewNullPrinter(), nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network, or none)", printerType)
	}
}
