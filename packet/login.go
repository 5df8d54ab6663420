package packet

import (
	"fmt"
	"io"

	"github.com/google/uuid"
)

// MaxCookieLen bounds the payload of a cookie response.
const MaxCookieLen = 5120

// @gen:r,w,regserver
type LoginStart struct {
	Name       string    `field:"String"`
	PlayerUUID uuid.UUID `field:"UUID"`
}

func (p LoginStart) ID() int32 {
	return 0
}

// @gen:r,w,regserver
type EncryptionResponse struct {
	SharedSecret []byte `field:"ByteArray"`
	VerifyToken  []byte `field:"ByteArray"`
}

func (p EncryptionResponse) ID() int32 {
	return 1
}

// LoginPluginResponse answers a LoginPluginRequest with the same MessageID.
// Data is only meaningful when Successful is set.
//
// @gen:r,w,regserver
type LoginPluginResponse struct {
	MessageID  int32  `field:"VarInt"`
	Successful bool   `field:"Boolean"`
	Data       []byte `field:"RemainingBytes"`
}

func (p LoginPluginResponse) ID() int32 {
	return 2
}

// @gen:r,w,regserver
type LoginAcknowledge struct{}

func (p LoginAcknowledge) ID() int32 {
	return 3
}

// @gen:r,w,regserver
type CookieResponse struct {
	Key     Identifier       `field:"Identifier"`
	Payload Optional[[]byte] `field:"Optional" write:"WriteByteArray" read:"readCookiePayload"`
}

func (p CookieResponse) ID() int32 {
	return 4
}

func readCookiePayload(r Reader) (v []byte, err error) {
	v, err = ReadByteArray(r)
	if err == nil && len(v) > MaxCookieLen {
		err = fmt.Errorf("%w: cookie payload of %d bytes", ErrLimitExceeded, len(v))
	}
	return
}

// @gen:r,w,regclient
type LoginDisconnect struct {
	Reason any `field:"Chat"`
}

func (p LoginDisconnect) ID() int32 {
	return 0
}

// @gen:r,w,regclient
type EncryptionRequest struct {
	ServerID    string `field:"String"`
	PublicKey   []byte `field:"ByteArray"`
	VerifyToken []byte `field:"ByteArray"`
	ShouldAuth  bool   `field:"Boolean"`
}

func (p EncryptionRequest) ID() int32 {
	return 1
}

type GameProfileProperty struct {
	Name      string
	Value     string
	Signature Optional[string]
}

func writeGameProfileProperty(w io.Writer, v GameProfileProperty) (err error) {
	if err = WriteString(w, v.Name); err != nil {
		return
	}
	if err = WriteString(w, v.Value); err != nil {
		return
	}
	err = WriteOptional(w, v.Signature, WriteString)
	return
}

func readGameProfileProperty(r Reader) (v GameProfileProperty, err error) {
	v.Name, err = ReadString(r)
	if err != nil {
		return
	}
	v.Value, err = ReadString(r)
	if err != nil {
		return
	}
	v.Signature, err = ReadOptional(r, ReadString)
	return
}

// @gen:r,w,regclient
type LoginSuccess struct {
	UUID              uuid.UUID             `field:"UUID"`
	Username          string                `field:"String"`
	Properties        []GameProfileProperty `field:"PrefixedArray" write:"writeGameProfileProperty" read:"readGameProfileProperty"`
	StrictErrHandling bool                  `field:"Boolean"`
}

func (p LoginSuccess) ID() int32 {
	return 2
}

// SetCompression enables compression for every later packet. A negative
// threshold disables it.
//
// @gen:r,w,regclient
type SetCompression struct {
	Threshold int32 `field:"VarInt"`
}

func (p SetCompression) ID() int32 {
	return 3
}

// @gen:r,w,regclient
type LoginPluginRequest struct {
	MessageID int32      `field:"VarInt"`
	Channel   Identifier `field:"Identifier"`
	Data      []byte     `field:"RemainingBytes"`
}

func (p LoginPluginRequest) ID() int32 {
	return 4
}

// @gen:r,w,regclient
type CookieRequest struct {
	Key Identifier `field:"Identifier"`
}

func (p CookieRequest) ID() int32 {
	return 5
}
