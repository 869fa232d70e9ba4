package kafkasync

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/IBM/sarama"
	"github.com/prometheus/client_golang/prometheus"
)

// Publisher announces local locality writes to the other replicas. Sends
// are asynchronous and never block the request path; a full queue drops
// the event.
type Publisher struct {
	log     *slog.Logger
	topic   string
	events  chan Event
	prod    sarama.AsyncProducer
	counter *prometheus.CounterVec
	stopped chan struct{}
	errDone chan struct{}
}

func NewPublisher(cfg Config, log *slog.Logger, reg prometheus.Registerer, queueSize int) (*Publisher, error) {
	sc := sarama.NewConfig()
	sc.Version = sarama.V2_5_0_0
	sc.Producer.Return.Errors = true
	sc.Producer.Return.Successes = false
	sc.Producer.Partitioner = sarama.NewHashPartitioner

	prod, err := sarama.NewAsyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("locality publisher: create async producer: %w", err)
	}
	return newPublisher(prod, cfg.Topic, log, reg, queueSize), nil
}

func newPublisher(prod sarama.AsyncProducer, topic string, log *slog.Logger, reg prometheus.Registerer, queueSize int) *Publisher {
	if queueSize <= 0 {
		queueSize = 256
	}
	if log == nil {
		log = slog.Default()
	}
	p := &Publisher{
		log:     log,
		topic:   topic,
		events:  make(chan Event, queueSize),
		prod:    prod,
		counter: newPublishCounter(reg),
		stopped: make(chan struct{}),
		errDone: make(chan struct{}),
	}

	go func() {
		defer close(p.stopped)
		for ev := range p.events {
			b, err := json.Marshal(ev)
			if err != nil {
				p.counter.WithLabelValues("error").Inc()
				p.log.Error("locality publisher: marshal", "err", err)
				continue
			}
			// keyed by name so every change to a locality lands on one partition in order
			p.prod.Input() <- &sarama.ProducerMessage{
				Topic: p.topic,
				Key:   sarama.StringEncoder(ev.Name),
				Value: sarama.ByteEncoder(b),
			}
			p.counter.WithLabelValues("sent").Inc()
		}
	}()

	go func() {
		defer close(p.errDone)
		for err := range p.prod.Errors() {
			if err != nil {
				p.counter.WithLabelValues("error").Inc()
				p.log.Error("locality publisher: producer error", "err", err)
			}
		}
	}()

	return p
}

func (p *Publisher) Publish(ev Event) {
	select {
	case p.events <- ev:
	default:
		p.counter.WithLabelValues("dropped").Inc()
	}
}

func (p *Publisher) Close() error {
	close(p.events)
	<-p.stopped

	if err := p.prod.Close(); err != nil {
		return fmt.Errorf("locality publisher: close producer: %w", err)
	}
	<-p.errDone
	return nil
}
