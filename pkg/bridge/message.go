package bridge

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
)

// UplinkPort is the LoRaWAN port the trackers report positions on.
// Uplinks on any other port are skipped.
const UplinkPort = 136

type StatusFlag uint8

const (
	StatusIndoor StatusFlag = 1 << 2
	StatusNoFix  StatusFlag = 1 << 3
	StatusError  StatusFlag = 1 << 4

	statusMask = StatusIndoor | StatusNoFix | StatusError
)

func (f StatusFlag) Has(flag StatusFlag) bool { return f&flag != 0 }

func (f StatusFlag) String() string {
	switch {
	case f.Has(StatusError):
		return "error"
	case f.Has(StatusNoFix):
		return "nofix"
	case f.Has(StatusIndoor):
		return "indoor"
	default:
		return "ok"
	}
}

// Uplink is one decoded tracker report.
type Uplink struct {
	Deveui   int64
	Port     int
	Status   StatusFlag
	BattV    float64
	BattCap  float64
	Temp     float64
	Lat      float64
	Lon      float64
	Accuracy float64
	Rssi     float64
	Snr      float64
	Sf       int
}

// ttnEnvelope is the subset of the TTN v3 uplink JSON the bridge reads.
type ttnEnvelope struct {
	EndDeviceIDs struct {
		DevEui string `json:"dev_eui"`
	} `json:"end_device_ids"`
	UplinkMessage struct {
		FPort      int    `json:"f_port"`
		FrmPayload string `json:"frm_payload"`
		RxMetadata []struct {
			Rssi float64 `json:"rssi"`
			Snr  float64 `json:"snr"`
		} `json:"rx_metadata"`
		Settings struct {
			DataRate struct {
				Lora struct {
					SpreadingFactor int `json:"spreading_factor"`
				} `json:"lora"`
			} `json:"data_rate"`
		} `json:"settings"`
	} `json:"uplink_message"`
}

// ParseUplink parses a TTN v3 uplink envelope and decodes the tracker
// payload. An uplink on a port other than UplinkPort returns (nil, nil).
func ParseUplink(payload []byte) (*Uplink, error) {
	var env ttnEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("invalid uplink envelope: %w", err)
	}

	if env.UplinkMessage.FPort != UplinkPort {
		return nil, nil
	}

	raw, err := base64.StdEncoding.DecodeString(env.UplinkMessage.FrmPayload)
	if err != nil {
		return nil, fmt.Errorf("invalid frm_payload: %w", err)
	}

	up, err := decodeTrackerPayload(raw)
	if err != nil {
		return nil, err
	}

	up.Deveui = parseDeveui(env.EndDeviceIDs.DevEui)
	up.Port = env.UplinkMessage.FPort
	if len(env.UplinkMessage.RxMetadata) > 0 {
		up.Rssi = env.UplinkMessage.RxMetadata[0].Rssi
		up.Snr = env.UplinkMessage.RxMetadata[0].Snr
	}
	up.Sf = env.UplinkMessage.Settings.DataRate.Lora.SpreadingFactor

	return up, nil
}

// parseDeveui turns the hex dev_eui into the short numeric identity the
// trackers are registered under (the low 9 bits). A malformed value maps
// to 0, which is never a registered device.
func parseDeveui(hexEui string) int64 {
	v, err := strconv.ParseUint(hexEui, 16, 64)
	if err != nil {
		return 0
	}
	return int64(v & 0x1FF)
}

// decodeTrackerPayload unpacks the port-136 report:
//
//	Byte:   0       1        2      3 4 5 6   7 8 9 10
//	Field:  Status  Battery  Temp   Lat       Lon+Accuracy
func decodeTrackerPayload(b []byte) (*Uplink, error) {
	if len(b) < 11 {
		return nil, fmt.Errorf("payload too short: %d bytes", len(b))
	}

	var up Uplink

	// Byte 0: status flags. Bit 4: GPS module error, bit 3: no fix,
	// bit 2: indoor.
	up.Status = StatusFlag(b[0]) & statusMask

	// Byte 1: bits [3:0] voltage step v, battery voltage = (25 + v) / 10 V;
	// bits [7:4] capacity step k, remaining capacity = 100 * k / 15 %.
	up.BattV = float64((b[1]&0x0F)+25) / 10.0
	up.BattCap = float64(b[1]>>4) * 100 / 15

	// Byte 2: bits [6:0] temperature in degC = t - 32.
	up.Temp = float64(b[2]&0x7F) - 32

	// Bytes 3-6 (lsb first): bits [27:0] signed latitude in degrees / 1e6.
	up.Lat = float64(signed(rdlsbf(b, 3, 4)&0x0FFFFFFF, 28)) / 1e6

	// Bytes 7-10 (lsb first): bits [28:0] signed longitude in degrees / 1e6;
	// bits [31:29] accuracy step a, estimate = 2a + 2 m (7 means worse
	// than 256 m).
	lonacc := rdlsbf(b, 7, 4)
	up.Lon = float64(signed(lonacc&0x1FFFFFFF, 29)) / 1e6
	up.Accuracy = float64(2*((lonacc>>29)&0x7) + 2)

	return &up, nil
}

func signed(val uint64, bits uint) int64 {
	if val >= 1<<(bits-1) {
		return int64(val) - 1<<bits
	}
	return int64(val)
}

func rdlsbf(b []byte, offset, length int) uint64 {
	var val uint64
	offset += length - 1
	for length > 0 {
		val = val*256 + uint64(b[offset])
		offset--
		length--
	}
	return val
}
