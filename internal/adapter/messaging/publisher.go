package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const dialTimeout = 5 * time.Second

var ErrPublisherUnavailable = errors.New("broker connection is down")

type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// session is one live connection and channel. closed fires when the broker
// or the network drops the connection.
type session struct {
	ch     publishChannel
	close  func() error
	closed <-chan *amqp.Error
}

func (s *session) alive() bool {
	select {
	case <-s.closed:
		return false
	default:
		return true
	}
}

func (s *session) shutdown() {
	_ = s.ch.Close()
	_ = s.close()
}

type dialFunc func(url, exchange string) (*session, error)

func dialSession(url, exchange string) (*session, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &session{
		ch:     ch,
		close:  conn.Close,
		closed: conn.NotifyClose(make(chan *amqp.Error, 1)),
	}, nil
}

// Publisher publishes to a durable topic exchange. A dropped connection is
// redialed on the next publish, with the consumer's exponential backoff
// between failed dials.
type Publisher struct {
	url      string
	exchange string
	dial     dialFunc
	now      func() time.Time
	logger   *slog.Logger

	mu       sync.Mutex
	sess     *session
	backoff  time.Duration
	nextDial time.Time
}

func NewPublisher(url, exchange string, logger *slog.Logger) (*Publisher, error) {
	return newPublisher(url, exchange, dialSession, time.Now, logger)
}

func newPublisher(url, exchange string, dial dialFunc, now func() time.Time, logger *slog.Logger) (*Publisher, error) {
	sess, err := dial(url, exchange)
	if err != nil {
		return nil, err
	}

	return &Publisher{
		url:      url,
		exchange: exchange,
		dial:     dial,
		now:      now,
		logger:   logger,
		sess:     sess,
		backoff:  minBackoff,
	}, nil
}

func (p *Publisher) PublishJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	sess, err := p.session()
	if err != nil {
		return err
	}

	err = sess.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         b,
	})
	if errors.Is(err, amqp.ErrClosed) {
		p.drop()
	}

	return err
}

// session returns the live session, redialing when the previous one is gone.
// Callers hold p.mu.
func (p *Publisher) session() (*session, error) {
	if p.sess != nil && p.sess.alive() {
		return p.sess, nil
	}

	if p.sess != nil {
		p.logger.Warn("notice publisher: connection lost")
		p.drop()
	}

	if p.now().Before(p.nextDial) {
		return nil, ErrPublisherUnavailable
	}

	sess, err := p.dial(p.url, p.exchange)
	if err != nil {
		p.nextDial = p.now().Add(p.backoff)
		p.logger.Warn("notice publisher: redial failed", "err", err, "retry_in", p.backoff)
		p.backoff = min(p.backoff*2, maxBackoff)
		return nil, fmt.Errorf("%w: %w", ErrPublisherUnavailable, err)
	}

	p.logger.Info("notice publisher: reconnected", "exchange", p.exchange)
	p.sess = sess
	p.backoff = minBackoff
	p.nextDial = time.Time{}

	return sess, nil
}

func (p *Publisher) drop() {
	if p.sess != nil {
		p.sess.shutdown()
		p.sess = nil
	}
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sess == nil {
		return nil
	}

	_ = p.sess.ch.Close()
	err := p.sess.close()
	p.sess = nil

	return err
}
