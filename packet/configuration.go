package packet

// Only the packets that end the configuration phase are modeled; the rest
// of the phase passes through as Raw.

// @gen:r,w,regserver
type AcknowledgeFinishConfiguration struct{}

func (p AcknowledgeFinishConfiguration) ID() int32 {
	return 3
}

// @gen:r,w,regclient
type FinishConfiguration struct{}

func (p FinishConfiguration) ID() int32 {
	return 3
}
