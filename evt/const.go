package evt

const (
	LEMetaCode = 0x3E

	LECISEstablishedSubCode = 0x19
	LECISRequestSubCode     = 0x1A

	leCISEstablishedLen = 29
	leCISRequestLen     = 7
)
