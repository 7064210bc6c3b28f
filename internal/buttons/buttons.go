// Package buttons provides watch-button input reading with hardware
// abstraction. The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package buttons

// Reader reads the three button levels.
type Reader interface {
	// Read returns whether each button is currently pressed.
	// The raw GPIO values are inverted: buttons are wired active low.
	// Returns (light, mode, alarm, error).
	Read() (bool, bool, bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Pin definitions (BCM numbering)
const (
	DefaultPinLight = 17 // Light button: drives tally A
	DefaultPinMode  = 27 // Mode button: confirm/exit
	DefaultPinAlarm = 22 // Alarm button: drives tally B
)
