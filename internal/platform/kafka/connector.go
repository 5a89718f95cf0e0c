package kafka

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

const pingTimeout = 5 * time.Second

// ParseBrokers splits a comma separated broker list.
func ParseBrokers(raw string) []string {
	var brokers []string
	for _, part := range strings.Split(raw, ",") {
		if broker := strings.TrimSpace(part); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}

// BrokerConnector dials the first reachable broker to prove the cluster is up and
// pairs that connection with a writer that waits for all in-sync replicas.
func BrokerConnector(brokers []string) Connector {
	return func(ctx context.Context) (Session, error) {
		if len(brokers) == 0 {
			return nil, errors.New("kafka: no brokers configured")
		}
		var conn *kafkago.Conn
		var lastErr error
		for _, broker := range brokers {
			c, err := kafkago.DialContext(ctx, "tcp", broker)
			if err != nil {
				lastErr = err
				continue
			}
			conn = c
			break
		}
		if conn == nil {
			return nil, fmt.Errorf("dial kafka brokers: %w", lastErr)
		}
		session := &brokerSession{
			conn: conn,
			writer: &kafkago.Writer{
				Addr:                   kafkago.TCP(brokers...),
				Balancer:               &kafkago.Hash{},
				RequiredAcks:           kafkago.RequireAll,
				BatchTimeout:           10 * time.Millisecond,
				AllowAutoTopicCreation: true,
			},
		}
		if err := session.Ping(ctx); err != nil {
			_ = session.Close()
			return nil, fmt.Errorf("read kafka metadata: %w", err)
		}
		return session, nil
	}
}

type brokerSession struct {
	conn   *kafkago.Conn
	writer *kafkago.Writer
}

func (s *brokerSession) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	return s.writer.WriteMessages(ctx, msgs...)
}

func (s *brokerSession) Ping(ctx context.Context) error {
	deadline := time.Now().Add(pingTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := s.conn.SetDeadline(deadline); err != nil {
		return err
	}
	_, err := s.conn.Brokers()
	return err
}

func (s *brokerSession) Close() error {
	return errors.Join(s.writer.Close(), s.conn.Close())
}
