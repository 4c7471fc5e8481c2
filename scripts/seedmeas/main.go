package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/joho/godotenv"

	"github.com/twaclaw/cowtracker-app/pkg/db"
	"github.com/twaclaw/cowtracker-app/pkg/models"
)

// Inserts a random measurement for one tracker, handy for exercising the
// evaluation path without live hardware.
func main() {
	id := flag.Int64("id", 0, "tracker id (deveui)")
	battCap := flag.Float64("batt-cap", 100, "battery capacity percentage")
	count := flag.Int("count", 1, "number of measurements to insert")
	flag.Parse()

	if *id == 0 {
		log.Fatal("--id is required")
	}

	if err := godotenv.Load(); err != nil {
		log.Fatal("Error loading .env file")
	}

	dbInstance := db.GetInstance(db.UseSqliteDialector())

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

	for i := 0; i < *count; i++ {
		m := models.Meas{
			Deveui:   *id,
			T:        time.Now().UTC().Add(time.Duration(-i) * time.Hour),
			Lat:      6.71 + rnd.Float64()*0.04,
			Lon:      -72.79 + rnd.Float64()*0.03,
			Accuracy: float64(2 + rnd.Intn(7)),
			BattV:    3.6,
			BattCap:  *battCap - float64(rnd.Intn(20)),
			Temp:     20,
			Rssi:     0,
			Snr:      0,
			Sf:       7,
		}
		if err := dbInstance.Conn.Create(&m).Error; err != nil {
			log.Fatal("Failed to insert measurement: ", err)
		}
		fmt.Printf("inserted meas for deveui=%d at %s\n", m.Deveui, m.T)
	}
}
