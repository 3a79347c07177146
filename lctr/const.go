package lctr

// Parameter ranges for LL_CIS_REQ [Vol 6, Part B, 2.4.2.29].
const (
	IsoIntervalMin = 0x0004
	IsoIntervalMax = 0x0C80

	NseMin = 0x01
	NseMax = 0x1F

	FramingUnframed = 0x00
	FramingFramed   = 0x01

	MaxSduMax      = 0x0FFF
	SduIntervalMax = 0x0FFFFF
	MaxPduMax      = 251

	FtMin = 0x01
	FtMax = 0xFF

	BnMax = 0x0F
)

// HCI/LL status codes [Vol 1, Part F].
const (
	StatusSuccess              = 0x00
	StatusLimitedResources     = 0x0D
	StatusUnsupportedFeature   = 0x11
	StatusInvalidLLParameters  = 0x1E
	StatusUnspecified          = 0x1F
	StatusLLProcedureCollision = 0x23
	StatusRemoteUserTerminated = 0x13
)

const (
	DefaultSetupDelayUsec = 200
	DefaultMaxGroups      = 2
	DefaultMaxStreams     = 4

	isoIntervalUnitUsec  = 1250
	connIntervalUnitUsec = 1250

	// T_IFS and T_MSS [Vol 6, Part B, 4.1].
	tIfsUsec = 150
	tMssUsec = 150

	cisHandleBase = 0x0100
	cisHandleMax  = 0x0EFF

	eventCounterHalf = 0x8000
)
