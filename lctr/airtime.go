package lctr

// PduAirTimeUsec is the on-air duration of one unencrypted data PDU with a
// payload of length octets.
func PduAirTimeUsec(phy Phy, length uint16) uint32 {
	n := uint32(length)
	switch phy {
	case Phy2M:
		// preamble 2, access address 4, header 2, crc 3
		return (11 + n) * 4
	case PhyCoded:
		// S=8: 80 preamble, 256 access address, 16 CI, 24 TERM1,
		// then header, payload, crc and TERM2 at 64 usec per octet
		return 720 + 64*n
	default:
		// preamble 1, access address 4, header 2, crc 3
		return (10 + n) * 8
	}
}

// SubEventLenUsec is the air time one sub-event needs: a full M->S PDU, T_IFS,
// a full S->M PDU, and T_MSS before the next sub-event.
func SubEventLenUsec(req StreamRequest) uint32 {
	return PduAirTimeUsec(req.PhyMToS, req.MaxPduMToS) + tIfsUsec +
		PduAirTimeUsec(req.PhySToM, req.MaxPduSToM) + tMssUsec
}
