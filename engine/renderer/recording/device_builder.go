package recording

// DeviceOption is a functional option applied to a Device during construction via NewDevice.
type DeviceOption func(*Device)

// WithBeginBatchError makes every BeginBatch call fail with err.
//
// Parameters:
//   - err: the error to return
//
// Returns:
//   - DeviceOption: a function that applies the fault to a device
func WithBeginBatchError(err error) DeviceOption {
	return func(d *Device) {
		d.beginErr = err
	}
}

// WithCallBatchError makes every CallBatch call fail with err without replaying anything.
//
// Parameters:
//   - err: the error to return
//
// Returns:
//   - DeviceOption: a function that applies the fault to a device
func WithCallBatchError(err error) DeviceOption {
	return func(d *Device) {
		d.callErr = err
	}
}

// WithEndBatchError makes every EndBatch call fail with err after discarding the batch.
//
// Parameters:
//   - err: the error to return
//
// Returns:
//   - DeviceOption: a function that applies the fault to a device
func WithEndBatchError(err error) DeviceOption {
	return func(d *Device) {
		d.endErr = err
	}
}
