package herd

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"github.com/twaclaw/cowtracker-app/pkg/common"
	"github.com/twaclaw/cowtracker-app/pkg/models"
)

var ErrUnknownCow = errors.New("unknown cow")

// insertIfAbsent appends a measurement, ignoring duplicates on the
// (deveui, t) natural key. Returns whether a new row was written.
func (h *Herd) insertIfAbsent(m *models.Meas) (bool, error) {
	res := h.Db.Conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "deveui"}, {Name: "t"}},
		DoNothing: true,
	}).Create(m)
	return res.RowsAffected > 0, res.Error
}

func (h *Herd) deviceExists(deveui int64) (bool, error) {
	var count int64
	err := h.Db.Conn.Model(&models.Tracker{}).Where("deveui = ?", deveui).Count(&count).Error
	return count > 0, err
}

// latestPerDevice returns the most recent measurement of every device
// that has ever reported.
func (h *Herd) latestPerDevice() ([]models.Meas, error) {
	var rows []models.Meas
	err := h.Db.Conn.
		Joins("JOIN (SELECT deveui, MAX(t) AS mt FROM meas GROUP BY deveui) latest ON meas.deveui = latest.deveui AND meas.t = latest.mt").
		Find(&rows).Error
	return rows, err
}

// measWindow returns the measurements of one device in [from, to],
// oldest first.
func (h *Herd) measWindow(deveui int64, from, to time.Time) ([]models.Meas, error) {
	var rows []models.Meas
	err := h.Db.Conn.
		Where("deveui = ? AND t >= ? AND t <= ?", deveui, from, to).
		Order("t asc").
		Find(&rows).Error
	return rows, err
}

// RebuildState replays the store into a fresh runtime state: every
// registered tracker becomes known, and the newest stored row per device
// seeds its last-seen pointer. Called once at startup.
func (h *Herd) RebuildState() error {
	logger := common.GetLoggerWith(
		common.LoggerNameHerdCore,
		zap.String(common.LoggerFieldHerdCategory, common.LoggerCategoryState),
	)

	var trackers []models.Tracker
	if err := h.Db.Conn.Find(&trackers).Error; err != nil {
		return err
	}
	for _, tr := range trackers {
		h.State.GetOrCreate(tr.Deveui)
	}

	rows, err := h.latestPerDevice()
	if err != nil {
		return err
	}
	for i := range rows {
		m := rows[i]
		ds := h.State.GetOrCreate(m.Deveui)
		ds.mu.Lock()
		ds.last = &m
		ds.mu.Unlock()
	}

	logger.Info("Rebuilt device runtime state from store",
		zap.Int("trackers", len(trackers)),
		zap.Int("devices_with_measurements", len(rows)))
	return nil
}

// TrackerIdentity resolves the human-readable labels for a device: the
// tracker label and, when one is linked by label, the cow name.
func (h *Herd) TrackerIdentity(deveui int64) (label string, cowName string, err error) {
	var tracker models.Tracker
	if err := h.Db.Conn.First(&tracker, "deveui = ?", deveui).Error; err != nil {
		return "", "", err
	}
	var cow models.Cow
	if err := h.Db.Conn.First(&cow, "label = ?", tracker.Label).Error; err == nil {
		cowName = cow.Name
	}
	return tracker.Label, cowName, nil
}

// CowNames lists every cow that is mapped to an active tracker.
func (h *Herd) CowNames() ([]string, error) {
	var names []string
	err := h.Db.Conn.Model(&models.Cow{}).
		Joins("JOIN trackers ON trackers.label = cows.label").
		Order("cows.name").
		Pluck("cows.name", &names).Error
	return names, err
}

// Point is a measurement in the shape consumed by the read API.
type Point struct {
	Name     string  `json:"name,omitempty"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	T        int64   `json:"t"`
	Accuracy float64 `json:"accuracy"`
	BattV    float64 `json:"batt_v"`
	BattCap  float64 `json:"batt_cap"`
	Temp     float64 `json:"temp"`
	Rssi     float64 `json:"rssi"`
	Snr      float64 `json:"snr"`
	Sf       int     `json:"sf"`
}

func measToPoint(m models.Meas) Point {
	return Point{
		Lat:      m.Lat,
		Lon:      m.Lon,
		T:        m.T.Unix(),
		Accuracy: m.Accuracy,
		BattV:    m.BattV,
		BattCap:  m.BattCap,
		Temp:     m.Temp,
		Rssi:     m.Rssi,
		Snr:      m.Snr,
		Sf:       m.Sf,
	}
}

// LastCoords returns the n most recent points of one cow, newest first.
func (h *Herd) LastCoords(cowName string, n int) ([]Point, error) {
	deveui, err := h.deveuiForCow(cowName)
	if err != nil {
		return nil, err
	}
	var rows []models.Meas
	if err := h.Db.Conn.
		Where("deveui = ?", deveui).
		Order("t desc").
		Limit(n).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return common.Mapper(rows, measToPoint), nil
}

// CurrentPositions returns the latest point of every cow with a tracker.
func (h *Herd) CurrentPositions() ([]Point, error) {
	rows, err := h.latestPerDevice()
	if err != nil {
		return nil, err
	}
	points := make([]Point, 0, len(rows))
	for _, m := range rows {
		_, cowName, err := h.TrackerIdentity(m.Deveui)
		if err != nil || cowName == "" {
			continue
		}
		p := measToPoint(m)
		p.Name = cowName
		points = append(points, p)
	}
	return points, nil
}

// RecentAlerts returns the n most recently sent alert records.
func (h *Herd) RecentAlerts(n int) ([]models.Alert, error) {
	var alerts []models.Alert
	err := h.Db.Conn.
		Order("timestamp desc").
		Limit(n).
		Find(&alerts).Error
	return alerts, err
}

func (h *Herd) deveuiForCow(cowName string) (int64, error) {
	var cow models.Cow
	if err := h.Db.Conn.First(&cow, "name = ?", cowName).Error; err != nil {
		return 0, ErrUnknownCow
	}
	var tracker models.Tracker
	if err := h.Db.Conn.First(&tracker, "label = ?", cow.Label).Error; err != nil {
		return 0, ErrUnknownCow
	}
	return tracker.Deveui, nil
}
