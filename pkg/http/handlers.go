package http

import (
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"github.com/twaclaw/cowtracker-app/pkg/herd"
)

func (rs *RestfulServer) GetNames(c *gin.Context) {
	names, err := rs.Herd.CowNames()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, names)
}

func (rs *RestfulServer) GetCowMeas(c *gin.Context) {
	name := c.Param("name")

	n := 1
	if raw := c.Query("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "n must be a positive integer"})
			return
		}
		n = parsed
	}

	points, err := rs.Herd.LastCoords(name, n)
	if err != nil {
		if errors.Is(err, herd.ErrUnknownCow) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown cow: " + name})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, points)
}

func (rs *RestfulServer) GetPositions(c *gin.Context) {
	points, err := rs.Herd.CurrentPositions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, points)
}

func (rs *RestfulServer) GetWarnings(c *gin.Context) {
	n := 50
	if raw := c.Query("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "n must be a positive integer"})
			return
		}
		n = parsed
	}

	alerts, err := rs.Herd.RecentAlerts(n)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, alerts)
}

type DownlinkRequest struct {
	Payload string `json:"payload"`
}

var downlinkRequestSchema = z.Struct(z.Shape{
	"Payload": z.String().Required(),
})

func (rs *RestfulServer) PostDownlink(c *gin.Context) {
	deviceID := c.Param("device_id")

	if !rs.CheckDeviceLimiter(deviceID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	var req DownlinkRequest
	if err := downlinkRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	payload, err := hex.DecodeString(req.Payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload must be hex encoded"})
		return
	}

	if rs.Herd.Downlink == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "downlink transport not configured"})
		return
	}

	if err := rs.Herd.Downlink.Downlink(deviceID, payload); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
