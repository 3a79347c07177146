package lctr

import "github.com/rigado/bleiso/llcp"

// NewStreamRequest converts a decoded LL_CIS_REQ.
func NewStreamRequest(p *llcp.CisReq) StreamRequest {
	r := StreamRequest{
		CigID:           p.CigID,
		CisID:           p.CisID,
		PhyMToS:         Phy(p.PhyMToS),
		PhySToM:         Phy(p.PhySToM),
		Framing:         FramingUnframed,
		MaxSduMToS:      p.MaxSduMToS,
		MaxSduSToM:      p.MaxSduSToM,
		SduIntervalMToS: p.SduIntervalMToS,
		SduIntervalSToM: p.SduIntervalSToM,
		MaxPduMToS:      p.MaxPduMToS,
		MaxPduSToM:      p.MaxPduSToM,
		Nse:             p.Nse,
		SubIntervalUsec: p.SubIntervalUsec,
		BnMToS:          p.BnMToS,
		BnSToM:          p.BnSToM,
		FtMToS:          p.FtMToS,
		FtSToM:          p.FtSToM,
		IsoInterval:     p.IsoInterval,
		OffsetMinUsec:   p.OffsetMinUsec,
		OffsetMaxUsec:   p.OffsetMaxUsec,
		CeRef:           p.ConnEventCount,
	}
	if p.Framed {
		r.Framing = FramingFramed
	}
	return r
}

// PDU is the LL_CIS_REQ a master would send for r.
func (r StreamRequest) PDU() *llcp.CisReq {
	return &llcp.CisReq{
		CigID:           r.CigID,
		CisID:           r.CisID,
		PhyMToS:         uint8(r.PhyMToS),
		PhySToM:         uint8(r.PhySToM),
		Framed:          r.Framing == FramingFramed,
		MaxSduMToS:      r.MaxSduMToS,
		MaxSduSToM:      r.MaxSduSToM,
		SduIntervalMToS: r.SduIntervalMToS,
		SduIntervalSToM: r.SduIntervalSToM,
		MaxPduMToS:      r.MaxPduMToS,
		MaxPduSToM:      r.MaxPduSToM,
		Nse:             r.Nse,
		SubIntervalUsec: r.SubIntervalUsec,
		BnMToS:          r.BnMToS,
		BnSToM:          r.BnSToM,
		FtMToS:          r.FtMToS,
		FtSToM:          r.FtSToM,
		IsoInterval:     r.IsoInterval,
		OffsetMinUsec:   r.OffsetMinUsec,
		OffsetMaxUsec:   r.OffsetMaxUsec,
		ConnEventCount:  r.CeRef,
	}
}

// NewStreamIndication converts a decoded LL_CIS_IND.
func NewStreamIndication(p *llcp.CisInd) StreamIndication {
	return StreamIndication{
		AccessAddress:    p.AccessAddress,
		OffsetUsec:       p.OffsetUsec,
		CigSyncDelayUsec: p.CigSyncDelayUsec,
		CisSyncDelayUsec: p.CisSyncDelayUsec,
		CeRef:            p.ConnEventCount,
	}
}

func (i StreamIndication) PDU() *llcp.CisInd {
	return &llcp.CisInd{
		AccessAddress:    i.AccessAddress,
		OffsetUsec:       i.OffsetUsec,
		CigSyncDelayUsec: i.CigSyncDelayUsec,
		CisSyncDelayUsec: i.CisSyncDelayUsec,
		ConnEventCount:   i.CeRef,
	}
}
