package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/TriStrac/scarrow-server/internal/config"
	"github.com/TriStrac/scarrow-server/internal/models"
	"github.com/TriStrac/scarrow-server/internal/services"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// DeviceEvent is the payload a deployed unit publishes after a deterrent run.
type DeviceEvent struct {
	DeviceID       string    `json:"DeviceID"`
	Timestamp      time.Time `json:"Timestamp"`
	PestType       string    `json:"PestType"`
	FendType       string    `json:"FendType"`
	ActiveDuration float64   `json:"ActiveDuration"`
}

// Ingestor subscribes to the device event topic and persists each event
// as a device log. Events for unknown devices are dropped, not retried.
type Ingestor struct {
	cfg    config.MQTTConfig
	logs   *services.DeviceLogService
	client mqtt.Client
}

func NewIngestor(cfg config.MQTTConfig, logs *services.DeviceLogService) *Ingestor {
	return &Ingestor{cfg: cfg, logs: logs}
}

func (i *Ingestor) Start() error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", i.cfg.Broker, i.cfg.Port))
	opts.SetClientID(i.cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetCleanSession(true)
	if i.cfg.Username != "" {
		opts.SetUsername(i.cfg.Username)
		opts.SetPassword(i.cfg.Password)
	}
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Printf("[mqtt] connection lost: %v", err)
	})
	opts.SetOnConnectHandler(func(client mqtt.Client) {
		log.Printf("[mqtt] connected to %s:%d", i.cfg.Broker, i.cfg.Port)
		token := client.Subscribe(i.cfg.Topic, 1, func(_ mqtt.Client, msg mqtt.Message) {
			if err := i.handle(msg.Payload()); err != nil {
				log.Printf("[mqtt] dropped event on %s: %v", msg.Topic(), err)
			}
		})
		if token.Wait() && token.Error() != nil {
			log.Printf("[mqtt] subscribe %s failed: %v", i.cfg.Topic, token.Error())
		}
	})

	i.client = mqtt.NewClient(opts)
	if token := i.client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (i *Ingestor) handle(payload []byte) error {
	var ev DeviceEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("unparseable event: %w", err)
	}
	if ev.DeviceID == "" {
		return errors.New("event has no DeviceID")
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	_, err := i.logs.Create(&models.DeviceLog{
		DeviceID:       ev.DeviceID,
		Timestamp:      ev.Timestamp,
		PestType:       ev.PestType,
		FendType:       ev.FendType,
		ActiveDuration: ev.ActiveDuration,
	})
	return err
}

func (i *Ingestor) Stop() {
	if i.client != nil && i.client.IsConnected() {
		i.client.Disconnect(250)
	}
}
