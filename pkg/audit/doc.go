// Package audit writes an appliance's custom devices to a CSV report.
// It sits outside the mutating core: it reads the device list (optionally
// with criteria and a trailing-two-week net-bytes total per device) and never
// changes appliance state.
package audit
