package http

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/twaclaw/cowtracker-app/pkg/herd"
)

type RestfulServer struct {
	Server           *gin.Engine
	Herd             *herd.Herd
	RateLimiterStore *herd.RateLimiterStore
}

func (rs *RestfulServer) GetLimiter(deviceID string) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	} else {
		return rs.RateLimiterStore.GetLimiter(deviceID)
	}
}

func (rs *RestfulServer) CheckDeviceLimiter(deviceID string) bool {
	limiter := rs.GetLimiter(deviceID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)
	rs.Server.GET("/names", rs.GetNames)
	rs.Server.GET("/positions", rs.GetPositions)
	rs.Server.GET("/warnings", rs.GetWarnings)

	cows := rs.Server.Group("/cows/:name")
	{
		cows.GET("/meas", rs.GetCowMeas)
	}

	devices := rs.Server.Group("/devices/:device_id")
	{
		devices.POST("/downlink", rs.PostDownlink)
	}
}
