package packet

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// @gen:r,w,regserver
type StatusReqPacket struct{}

func (p StatusReqPacket) ID() int32 {
	return 0
}

// @gen:r,w,regserver
type PingReqPacket struct {
	Timestamp int64 `field:"Long"`
}

func (p PingReqPacket) ID() int32 {
	return 1
}

// @gen:r,w,regclient
type StatusRespPacket struct {
	Response string `field:"String"` // JSON, see ServerStatus
}

func (p StatusRespPacket) ID() int32 {
	return 0
}

// @gen:r,w,regclient
type PongRespPacket struct {
	Timestamp int64 `field:"Long"`
}

func (p PongRespPacket) ID() int32 {
	return 1
}

// ServerStatus is the document carried by StatusRespPacket.
type ServerStatus struct {
	Version            StatusVersion  `json:"version"`
	Players            *StatusPlayers `json:"players,omitempty"`
	Description        any            `json:"description,omitempty"`
	Favicon            string         `json:"favicon,omitempty"`
	EnforcesSecureChat bool           `json:"enforcesSecureChat,omitempty"`
}

type StatusVersion struct {
	Name     string `json:"name"`
	Protocol int32  `json:"protocol"`
}

type StatusPlayers struct {
	Max    int            `json:"max"`
	Online int            `json:"online"`
	Sample []StatusPlayer `json:"sample,omitempty"`
}

type StatusPlayer struct {
	Name string    `json:"name"`
	ID   uuid.UUID `json:"id"`
}

// NewStatusResponse serializes s into a response packet.
func NewStatusResponse(s ServerStatus) (p StatusRespPacket, err error) {
	b, err := json.Marshal(s)
	if err != nil {
		return
	}

	p.Response = string(b)
	return
}

// Status parses the JSON response.
func (p StatusRespPacket) Status() (s ServerStatus, err error) {
	if err = json.Unmarshal([]byte(p.Response), &s); err != nil {
		err = fmt.Errorf("%w: status response: %w", ErrMalformed, err)
	}
	return
}
