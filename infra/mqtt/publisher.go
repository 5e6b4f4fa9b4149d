package mqtt

import (
	"encoding/json"
	"fmt"
	"strings"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/fieldops/weekplan/core/model"
	"github.com/fieldops/weekplan/infra/logger"
)

// Config defines the connection parameters for the plan publisher.
type Config struct {
	Enabled  bool   `json:"enabled"`
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	// TopicPrefix prefixes the per-day topics, e.g. "weekplan/plan".
	TopicPrefix string `json:"topic_prefix"`
	QoS         byte   `json:"qos"`
	Retain      bool   `json:"retain"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "weekplan"
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = "weekplan/plan"
	}
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Publisher pushes finished day plans to field devices over MQTT, one
// message per planned day.
type Publisher struct {
	cli pahoClient
	cfg Config
	log logger.Logger
}

// NewPublisher connects to the MQTT broker.
func NewPublisher(cfg Config) (*Publisher, error) {
	cfg.SetDefaults()
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	cli := newMQTTClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return &Publisher{cli: cli, cfg: cfg, log: logger.New("plan-publisher")}, nil
}

// dayMessage is the wire rendering of one planned day.
type dayMessage struct {
	RunID     string         `json:"run_id"`
	WeekStart string         `json:"week_start"`
	Day       string         `json:"day"`
	Date      string         `json:"date"`
	Focus     string         `json:"focus,omitempty"`
	Sessions  map[string]any `json:"sessions"`
}

type stopMessage struct {
	Sequence  int    `json:"sequence"`
	Ref       string `json:"ref,omitempty"`
	Label     string `json:"label"`
	Territory string `json:"territory"`
	Urgency   string `json:"urgency"`
	Minutes   int    `json:"minutes"`
}

// PublishPlan sends one message per active day of the plan to
// "<prefix>/<weekday>" in lowercase.
func (p *Publisher) PublishPlan(runID string, plan *model.WeekPlan) error {
	for _, day := range model.Weekdays {
		dp, ok := plan.Days[day]
		if !ok {
			continue
		}
		sessions := make(map[string]any, len(model.Sessions))
		for _, sess := range model.Sessions {
			stops := make([]stopMessage, 0, len(dp.Sessions[sess]))
			for _, j := range dp.Sessions[sess] {
				stops = append(stops, stopMessage{
					Sequence:  j.PlannedSequence,
					Ref:       j.Ref,
					Label:     j.Label,
					Territory: j.Territory,
					Urgency:   j.Urgency.String(),
					Minutes:   j.EstimatedMinutes,
				})
			}
			sessions[string(sess)] = stops
		}
		msg := dayMessage{
			RunID:     runID,
			WeekStart: plan.WeekStart.Format("2006-01-02"),
			Day:       day.String(),
			Date:      dp.Date.Format("2006-01-02"),
			Focus:     dp.Focus,
			Sessions:  sessions,
		}
		payload, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("marshal day plan: %w", err)
		}
		topic := fmt.Sprintf("%s/%s", p.cfg.TopicPrefix, strings.ToLower(day.String()))
		token := p.cli.Publish(topic, p.cfg.QoS, p.cfg.Retain, payload)
		if token.Wait() && token.Error() != nil {
			return fmt.Errorf("publish %s: %w", topic, token.Error())
		}
		p.log.Debugf("published %s (%d bytes)", topic, len(payload))
	}
	return nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	if p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
}
