package models

import "time"

type ConditionKind string

const (
	ConditionMovement ConditionKind = "movement"
	ConditionDistance ConditionKind = "distance"
	ConditionBattery  ConditionKind = "battery"
	ConditionSilence  ConditionKind = "silence"
)

type Severity int

const (
	SeverityOK Severity = iota
	SeverityWarn
	SeverityDanger
)

func (s Severity) String() string {
	switch s {
	case SeverityWarn:
		return "warn"
	case SeverityDanger:
		return "danger"
	default:
		return "ok"
	}
}

// Verdict is the evaluated state of one condition of one device. It is
// not persisted; the Alert row records the ones that led to an email.
type Verdict struct {
	Deveui    int64
	Condition ConditionKind
	Severity  Severity
	Value     float64
	Threshold float64
	Unit      string
	At        time.Time
}

// Tracker is one physical LoRaWAN GPS collar, identified by its deveui.
type Tracker struct {
	Deveui int64  `gorm:"primaryKey;autoIncrement:false"`
	Label  string `gorm:"uniqueIndex"`

	Meas   []Meas  `gorm:"foreignKey:Deveui;references:Deveui"`
	Alerts []Alert `gorm:"foreignKey:Deveui;references:Deveui"`
}

// Cow is linked to its active tracker via the shared label.
type Cow struct {
	ID       uint   `gorm:"primaryKey"`
	Label    string `gorm:"index"`
	Name     string `gorm:"uniqueIndex"`
	Birthday time.Time
}

// Meas is an immutable uplink fact. The composite unique index on
// (deveui, t) is what makes duplicate delivery idempotent.
type Meas struct {
	ID       uint      `gorm:"primaryKey"`
	Deveui   int64     `gorm:"uniqueIndex:idx_meas_deveui_t"`
	T        time.Time `gorm:"uniqueIndex:idx_meas_deveui_t"`
	Lat      float64
	Lon      float64
	Accuracy float64
	BattV    float64
	BattCap  float64
	Temp     float64
	Rssi     float64
	Snr      float64
	Sf       int
}

func (Meas) TableName() string { return "meas" }

// Alert is the durable record of a notification that was handed to the
// email transport, one row per successful handoff.
type Alert struct {
	ID        uint  `gorm:"primaryKey"`
	Deveui    int64 `gorm:"index"`
	Timestamp time.Time
	Condition ConditionKind `gorm:"type:varchar(20);check:condition IN ('movement','distance','battery','silence')"`
	Severity  string        `gorm:"type:varchar(10)"`
	Message   string
}
