package core

// Channel identifies one analog input line on a converter unit.
type Channel uint8

// MaxChannel is the highest channel index a converter unit accepts.
const MaxChannel Channel = 17

// Alignment selects how a conversion result sits in its 16-bit field.
type Alignment uint8

const (
	AlignRight Alignment = iota
	AlignLeft
)

// SampleTime selects the per-channel sampling window, in converter clock
// cycles. The enumeration mirrors the device's discrete settings.
type SampleTime uint8

const (
	SampleTime1C5 SampleTime = iota
	SampleTime7C5
	SampleTime13C5
	SampleTime28C5
	SampleTime41C5
	SampleTime55C5
	SampleTime71C5
	SampleTime239C5
)

// Trigger selects what starts a regular conversion sequence.
type Trigger uint8

const (
	// TriggerNone leaves the unit idle; no start source is selected.
	TriggerNone Trigger = iota
	// TriggerSoftware starts a sequence on an explicit StartRegular call.
	TriggerSoftware
)

// DualMode links two converter units so one start command runs both.
type DualMode uint8

const (
	DualOff DualMode = iota
	// DualRegularSimultaneous pairs the unit with its partner: a regular
	// start on the master samples both units in lockstep and interleaves
	// the results into one combined data word per channel pair.
	DualRegularSimultaneous
)

// ConverterConfig is the high-level converter setup the core cares about.
type ConverterConfig struct {
	// Scan runs the whole channel sequence per trigger instead of a
	// single channel.
	Scan bool
	// Continuous restarts the sequence immediately after it completes.
	// The pipeline uses single-pass mode and waits for the next trigger.
	Continuous bool
	Trigger    Trigger
	Align      Alignment
	SampleTime SampleTime
	// DMA routes every completed regular conversion to the transfer
	// engine. Only the master unit of a dual pair sets this.
	DMA bool
	// EndOfScanIRQ raises the conversion interrupt line when the unit
	// finishes its sequence.
	EndOfScanIRQ bool
	Dual         DualMode
}

// AnalogConverter is the abstract interface to one converter unit. Flag
// accessors mirror hardware status bits and never block; PowerOn is the
// one blocking call, covering the mandatory post-power settle delay.
type AnalogConverter interface {
	// Configure applies the operating mode. The unit must be powered off.
	Configure(cfg ConverterConfig) error

	// SetSequence installs the ordered channel sequence for regular
	// conversions.
	SetSequence(seq []Channel) error

	// SequenceWord returns the packed sequence register image, five bits
	// per slot, first slot in the lowest bits.
	SequenceWord() uint32

	// PowerOn enables the unit and blocks for its settle delay.
	// Calibration run before the settle completes yields undefined
	// correction factors, so the delay is owned here, not by callers.
	PowerOn()

	// PowerOff disables the unit so it can be reconfigured.
	PowerOff()

	// ResetCalibration clears the unit's calibration factors.
	ResetCalibration()

	// Calibrate starts self-calibration. Completion is observed through
	// Calibrating.
	Calibrate()

	// Calibrating reports whether self-calibration is still running.
	Calibrating() bool

	// StartRegular issues one software start of the regular sequence. On
	// the master of a dual pair this also starts the partner unit.
	StartRegular()

	// EndOfScan reports whether the unit completed its sequence since the
	// flag was last cleared.
	EndOfScan() bool

	// ClearEndOfScan resets the end-of-scan flag.
	ClearEndOfScan()
}
