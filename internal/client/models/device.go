package models

import "strings"

// DeviceStatus is the catalog state of a rentable device.
type DeviceStatus string

const (
	DeviceAvailable   DeviceStatus = "AVAILABLE"
	DeviceReserved    DeviceStatus = "RESERVED"
	DeviceLoaned      DeviceStatus = "LOANED"
	DeviceMaintenance DeviceStatus = "MAINTENANCE"
	DeviceDamaged     DeviceStatus = "DAMAGED"
	DeviceLost        DeviceStatus = "LOST"
)

// deviceStatusAliases maps backend spellings (Polish labels and English
// aliases) onto DeviceStatus. Keys are upper-cased.
var deviceStatusAliases = map[string]DeviceStatus{
	"AVAILABLE":     DeviceAvailable,
	"DOSTĘPNY":      DeviceAvailable,
	"RESERVED":      DeviceReserved,
	"ZAREZERWOWANY": DeviceReserved,
	"LOANED":        DeviceLoaned,
	"BORROWED":      DeviceLoaned,
	"WYPOŻYCZONY":   DeviceLoaned,
	"MAINTENANCE":   DeviceMaintenance,
	"SERVICE":       DeviceMaintenance,
	"SERWIS":        DeviceMaintenance,
	"DAMAGED":       DeviceDamaged,
	"USZKODZONY":    DeviceDamaged,
	"LOST":          DeviceLost,
	"ZGUBIONY":      DeviceLost,
}

// ParseDeviceStatus normalizes a backend device status. Unknown values are
// returned upper-cased as-is so they still render.
func ParseDeviceStatus(s string) DeviceStatus {
	key := strings.ToUpper(strings.TrimSpace(s))
	if st, ok := deviceStatusAliases[key]; ok {
		return st
	}
	return DeviceStatus(key)
}

// Device is a read-only snapshot of a catalog device.
type Device struct {
	ID           int64        `json:"id" validate:"gt=0"`
	Name         string       `json:"name"`
	Type         string       `json:"type,omitempty"`
	SerialNumber string       `json:"serialNumber,omitempty"`
	Location     string       `json:"location,omitempty"`
	Status       DeviceStatus `json:"status,omitempty"`
}

// User is the identity returned by the backend for the current credentials.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}
