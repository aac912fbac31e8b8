//go:build integration

package publisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"

	"video_syncer/internal/domain"
)

type RabbitMQIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *rabbitmq.RabbitMQContainer
	amqpURL   string
	logger    *slog.Logger
}

func (s *RabbitMQIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	container, err := rabbitmq.Run(s.ctx,
		"rabbitmq:3.13-management-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Server startup complete").
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	amqpURL, err := container.AmqpURL(s.ctx)
	s.Require().NoError(err)
	s.amqpURL = amqpURL
}

func (s *RabbitMQIntegrationSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func TestRabbitMQIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RabbitMQIntegrationSuite))
}

func (s *RabbitMQIntegrationSuite) config(suffix string) RabbitMQConfig {
	return RabbitMQConfig{
		URL:        s.amqpURL,
		Exchange:   "videos-" + suffix,
		RoutingKey: "videos.new." + suffix,
		QueueName:  "videos-new-" + suffix,
	}
}

func (s *RabbitMQIntegrationSuite) TestNotifier_Connection() {
	pub, err := NewRabbitMQ(s.config("conn"), s.logger)
	s.Require().NoError(err)
	s.NotNil(pub)

	s.NoError(pub.Close())
}

func (s *RabbitMQIntegrationSuite) TestNotifier_NewRows() {
	cfg := s.config("rows")
	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	rows := domain.NewRows{
		CycleID:    "cycle-42",
		DetectedAt: time.Now().UTC().Truncate(time.Millisecond),
		Tables:     map[string][]string{"tbl_1": {"7301", "7302"}},
		IDs:        []string{"7301", "7302"},
	}
	s.Require().NoError(pub.Notify(s.ctx, rows))

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)

	s.Equal("application/json", msg.ContentType)
	s.Equal("cycle-42", msg.MessageId)
	s.Equal(EventNewRows, msg.Type)
	s.Equal(uint8(amqp.Persistent), msg.DeliveryMode)

	var received NewRowsMessage
	s.Require().NoError(json.Unmarshal(msg.Body, &received))
	s.Equal(EventNewRows, received.Event)
	s.Equal([]string{"7301", "7302"}, received.IDs)
	s.Equal([]string{"7301", "7302"}, received.Tables["tbl_1"])
	s.True(rows.DetectedAt.Equal(received.Timestamp))
}

func (s *RabbitMQIntegrationSuite) TestNotifier_ThroughMulti() {
	cfg := s.config("multi")
	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	err = Multi{pub}.Notify(s.ctx, domain.NewRows{CycleID: "c", IDs: []string{"a"}})
	s.Require().NoError(err)

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)
	s.Equal("c", msg.MessageId)
}

func (s *RabbitMQIntegrationSuite) consumeMessage(cfg RabbitMQConfig) *amqp.Delivery {
	conn, err := amqp.Dial(s.amqpURL)
	s.Require().NoError(err)
	defer conn.Close()

	ch, err := conn.Channel()
	s.Require().NoError(err)
	defer ch.Close()

	msgs, err := ch.Consume(cfg.QueueName, "", true, false, false, false, nil)
	s.Require().NoError(err)

	select {
	case msg := <-msgs:
		return &msg
	case <-time.After(5 * time.Second):
		s.Fail("timeout waiting for message")
		return nil
	}
}
