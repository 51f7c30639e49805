// Package outline groups analyzed topics into a sequenced course module plan,
// assigning each module one of the recommended instructional strategies.
package outline

// NoStrategiesError indicates outline assembly was requested before any
// strategy recommendations were computed.
type NoStrategiesError struct{}

func (e *NoStrategiesError) Error() string {
	return "cannot build module outline: no strategy recommendations available"
}
