package lctr

// ValidateStreamRequest checks an LL_CIS_REQ against the parameter ranges and
// against the connection it arrives on. It has no side effects.
func ValidateStreamRequest(conn ConnParams, req StreamRequest, setupDelayUsec uint32) error {
	// the whole burst plus the setup delay must fit before the next ACL anchor
	sizeLimit := int64(conn.IntervalUsec) - (int64(req.Nse)*int64(req.SubIntervalUsec) - int64(setupDelayUsec))

	switch {
	case req.IsoInterval < IsoIntervalMin || req.IsoInterval > IsoIntervalMax:
		return invalidParam("invalid IsoInterval %v", req.IsoInterval)

	case req.Nse < NseMin || req.Nse > NseMax:
		return invalidParam("invalid Nse %v", req.Nse)

	case req.Framing != FramingUnframed && req.Framing != FramingFramed:
		return invalidParam("invalid Framing %v", req.Framing)

	case req.MaxSduMToS > MaxSduMax:
		return invalidParam("invalid MaxSduMToS %v", req.MaxSduMToS)

	case req.MaxSduSToM > MaxSduMax:
		return invalidParam("invalid MaxSduSToM %v", req.MaxSduSToM)

	case req.SduIntervalMToS > SduIntervalMax:
		return invalidParam("invalid SduIntervalMToS %v", req.SduIntervalMToS)

	case req.SduIntervalSToM > SduIntervalMax:
		return invalidParam("invalid SduIntervalSToM %v", req.SduIntervalSToM)

	case req.MaxPduMToS > MaxPduMax:
		return invalidParam("invalid MaxPduMToS %v", req.MaxPduMToS)

	case req.MaxPduSToM > MaxPduMax:
		return invalidParam("invalid MaxPduSToM %v", req.MaxPduSToM)

	case !req.PhyMToS.valid():
		return invalidParam("invalid PhyMToS 0x%02x", uint8(req.PhyMToS))

	case !req.PhySToM.valid():
		return invalidParam("invalid PhySToM 0x%02x", uint8(req.PhySToM))

	case req.FtMToS < FtMin:
		return invalidParam("invalid FtMToS %v", req.FtMToS)

	case req.FtSToM < FtMin:
		return invalidParam("invalid FtSToM %v", req.FtSToM)

	case req.BnMToS > BnMax:
		return invalidParam("invalid BnMToS %v", req.BnMToS)

	case req.BnSToM > BnMax:
		return invalidParam("invalid BnSToM %v", req.BnSToM)

	case req.OffsetMaxUsec < req.OffsetMinUsec:
		return invalidParam("OffsetMaxUsec %v < OffsetMinUsec %v", req.OffsetMaxUsec, req.OffsetMinUsec)

	case int64(req.OffsetMaxUsec) >= sizeLimit:
		return invalidParam("cis request too big: OffsetMaxUsec %v, limit %v", req.OffsetMaxUsec, sizeLimit)
	}

	return nil
}

// ValidateStreamIndication checks the master's LL_CIS_IND against the
// request it answers.
func ValidateStreamIndication(req StreamRequest, ind StreamIndication) error {
	switch {
	case ind.OffsetUsec < req.OffsetMinUsec || ind.OffsetUsec > req.OffsetMaxUsec:
		return invalidParam("cis offset %v outside [%v, %v]", ind.OffsetUsec, req.OffsetMinUsec, req.OffsetMaxUsec)

	case ind.CisSyncDelayUsec > ind.CigSyncDelayUsec:
		return invalidParam("CisSyncDelayUsec %v > CigSyncDelayUsec %v", ind.CisSyncDelayUsec, ind.CigSyncDelayUsec)
	}

	return nil
}
