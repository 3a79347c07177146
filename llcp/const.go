package llcp

// LL control PDU opcodes [Vol 6, Part B, 2.4.2].
const (
	OpRejectExtInd    = 0x11
	OpCisReq          = 0x1F
	OpCisRsp          = 0x20
	OpCisInd          = 0x21
	OpCisTerminateInd = 0x22
)

// CtrData lengths, excluding the opcode.
const (
	cisReqLen          = 35
	cisRspLen          = 8
	cisIndLen          = 15
	cisTerminateIndLen = 3
	rejectExtIndLen    = 2
)

const (
	framedBit   = 0x8000
	maxSduMask  = 0x0FFF
	uint24Mask  = 0x00FFFFFF
	sduIntMask  = 0x000FFFFF
	bnNibbleLow = 0x0F
)
