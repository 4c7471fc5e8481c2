package bridge

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/twaclaw/cowtracker-app/pkg/common"
	"github.com/twaclaw/cowtracker-app/pkg/herd"
	"github.com/twaclaw/cowtracker-app/pkg/models"
)

type Config struct {
	Host   string
	Port   int
	AppID  string
	AppKey string
}

// Client subscribes to the TTN v3 uplink topic of the application and
// feeds decoded reports into the ingestion pipeline. It also implements
// the downlink hook by publishing to the TTN push topic.
type Client struct {
	client mqtt.Client
	conf   Config
	ingest herd.IIngest
	logger *zap.Logger
}

func NewClient(conf Config, ingest herd.IIngest) *Client {
	c := &Client{
		conf:   conf,
		ingest: ingest,
		logger: common.GetLoggerWith(common.LoggerNameTTNBridge),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("ssl://%s:%d", conf.Host, conf.Port))
	opts.SetClientID(fmt.Sprintf("cowtracker-%s", conf.AppID))
	opts.SetUsername(conf.AppID)
	opts.SetPassword(conf.AppKey)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(3 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		c.logger.Info("Connected to TTN broker", zap.String("host", conf.Host))
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		c.logger.Warn("Lost connection to TTN broker", zap.Error(err))
	})

	c.client = mqtt.NewClient(opts)
	return c
}

func (c *Client) uplinkTopic() string {
	return fmt.Sprintf("v3/%s/devices/+/up", c.conf.AppID)
}

// Connect establishes the broker session and subscribes to uplinks.
func (c *Client) Connect() error {
	if token := c.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect to TTN broker: %w", token.Error())
	}

	topic := c.uplinkTopic()
	if token := c.client.Subscribe(topic, 1, c.handleUplink); token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe to %s: %w", topic, token.Error())
	}

	c.logger.Info("Subscribed to uplink topic", zap.String("topic", topic))
	return nil
}

func (c *Client) Disconnect() {
	c.client.Disconnect(250)
}

func (c *Client) handleUplink(_ mqtt.Client, msg mqtt.Message) {
	up, err := ParseUplink(msg.Payload())
	if err != nil {
		c.logger.Error("Invalid uplink message", zap.String("topic", msg.Topic()), zap.Error(err))
		return
	}
	if up == nil {
		// unknown port, not a tracker report
		c.logger.Info("Skipping uplink on unexpected port", zap.String("topic", msg.Topic()))
		return
	}

	if up.Status != 0 {
		// the tracker had no usable fix, nothing to store
		c.logger.Info("Not storing uplink with status flags",
			zap.Int64("deveui", up.Deveui), zap.String("status", up.Status.String()))
		return
	}

	m := &models.Meas{
		Deveui:   up.Deveui,
		T:        time.Now().UTC(),
		Lat:      up.Lat,
		Lon:      up.Lon,
		Accuracy: up.Accuracy,
		BattV:    up.BattV,
		BattCap:  up.BattCap,
		Temp:     up.Temp,
		Rssi:     up.Rssi,
		Snr:      up.Snr,
		Sf:       up.Sf,
	}

	if err := c.ingest.Ingest(m); err != nil {
		// one bad uplink must not block the stream
		c.logger.Error("Measurement rejected",
			zap.Int64("deveui", up.Deveui), zap.Error(err))
	}
}

// Downlink publishes a command for one device to the TTN push topic.
// Scheduling, confirmation and retries are the network server's problem.
func (c *Client) Downlink(deviceID string, payload []byte) error {
	topic := fmt.Sprintf("v3/%s/devices/%s/down/push", c.conf.AppID, deviceID)

	body, err := json.Marshal(map[string]any{
		"downlinks": []map[string]any{
			{
				"f_port":      UplinkPort,
				"frm_payload": base64.StdEncoding.EncodeToString(payload),
			},
		},
	})
	if err != nil {
		return err
	}

	if token := c.client.Publish(topic, 1, false, body); token.Wait() && token.Error() != nil {
		return fmt.Errorf("publish downlink to %s: %w", topic, token.Error())
	}

	c.logger.Info("Downlink queued", zap.String("topic", topic))
	return nil
}
