package kafkasync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/IBM/sarama"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mohammed-shakir/pluscode/internal/locality"
)

// Invalidator drops a locality from a local cache. *locality.Cached
// satisfies it.
type Invalidator interface {
	Invalidate(name string)
}

// errMalformed marks messages that can never be applied. They are counted
// and committed so one bad record does not stall the partition.
var errMalformed = errors.New("malformed locality event")

type Runner struct {
	log      *slog.Logger
	cfg      Config
	store    locality.Store
	inv      Invalidator
	ms       *metricSet
	revs     *revisions
	assigned atomic.Bool
	assignMu sync.RWMutex
	assign   map[int32]struct{}
	wg       sync.WaitGroup
	cancel   context.CancelFunc
}

type Options struct {
	Logger      *slog.Logger
	Register    prometheus.Registerer
	Invalidator Invalidator
	DedupeSize  int
}

func New(cfg Config, store locality.Store, opts Options) *Runner {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Runner{
		log:    opts.Logger,
		cfg:    cfg,
		store:  store,
		inv:    opts.Invalidator,
		ms:     newMetricSet(opts.Register),
		revs:   newRevisions(opts.DedupeSize),
		assign: map[int32]struct{}{},
	}
}

func (r *Runner) Start(ctx context.Context) error {
	if !r.cfg.Active() {
		r.log.Info("locality sync disabled", "driver", r.cfg.Driver, "enabled", r.cfg.Enabled)
		return nil
	}
	if r.store == nil {
		return errors.New("locality sync: store dependency is required")
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_5_0_0
	cfg.Consumer.Group.Session.Timeout = r.cfg.SessionTimeout
	cfg.Consumer.Group.Heartbeat.Interval = r.cfg.Heartbeat
	cfg.Consumer.Group.Rebalance.Timeout = r.cfg.RebalanceTimeout
	if r.cfg.InitialOldest {
		cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		cfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	}
	cfg.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(r.cfg.Brokers, r.cfg.GroupID, cfg)
	if err != nil {
		cancel()
		return fmt.Errorf("consumer group: %w", err)
	}

	h := &groupHandler{
		setup:   r.onAssign,
		cleanup: func(sarama.ConsumerGroupSession) { r.onRevoke() },
		process: r.handleMessage,
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if err := group.Close(); err != nil {
				r.log.Error("kafka consumer group close", "err", err)
			}
		}()

		for {
			if err := group.Consume(ctx, []string{r.cfg.Topic}, h); err != nil {
				r.log.Error("kafka consume error", "err", err)
				select {
				case <-time.After(2 * time.Second):
				case <-ctx.Done():
					return
				}
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for err := range group.Errors() {
			r.log.Error("kafka group error", "err", err)
		}
	}()

	r.log.Info("locality sync started",
		"topic", r.cfg.Topic, "group", r.cfg.GroupID, "brokers", r.cfg.Brokers)
	return nil
}

func (r *Runner) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
	r.log.Info("locality sync stopped")
}

// Readiness is true once the group has assigned partitions. A disabled
// runner is always ready.
func (r *Runner) Readiness() (ready bool, partitions []int32) {
	if !r.cfg.Active() {
		return true, nil
	}
	if !r.assigned.Load() {
		return false, nil
	}
	r.assignMu.RLock()
	defer r.assignMu.RUnlock()
	for p := range r.assign {
		partitions = append(partitions, p)
	}
	return true, partitions
}

func (r *Runner) onAssign(sess sarama.ConsumerGroupSession) {
	r.assignMu.Lock()
	defer r.assignMu.Unlock()
	r.assign = map[int32]struct{}{}
	for _, parts := range sess.Claims() {
		for _, p := range parts {
			r.assign[p] = struct{}{}
		}
	}
	r.assigned.Store(true)
}

func (r *Runner) onRevoke() {
	r.assignMu.Lock()
	defer r.assignMu.Unlock()
	r.assigned.Store(false)
	r.assign = map[int32]struct{}{}
}

func (r *Runner) handleMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	start := time.Now()

	if !msg.Timestamp.IsZero() {
		r.ms.lagGauge.Set(time.Since(msg.Timestamp).Seconds())
	}

	var ev Event
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		r.ms.msgs.WithLabelValues("malformed").Inc()
		return fmt.Errorf("%w: decode: %w", errMalformed, err)
	}
	if err := ev.Validate(); err != nil {
		r.ms.msgs.WithLabelValues("malformed").Inc()
		return fmt.Errorf("%w: validate: %w", errMalformed, err)
	}
	ev.Name = locality.NormalizeName(ev.Name)

	if r.revs.stale(ev.Name, ev.Rev) {
		r.ms.apply.WithLabelValues("skip_rev").Inc()
		r.observe(ev.Op, nil, time.Since(start))
		return nil
	}

	err := r.apply(ctx, ev)
	if err == nil {
		r.revs.mark(ev.Name, ev.Rev)
	}
	r.observe(ev.Op, err, time.Since(start))
	return err
}

func (r *Runner) apply(ctx context.Context, ev Event) error {
	switch ev.Op {
	case OpUpsert:
		if err := r.store.Put(ctx, ev.locality()); err != nil {
			return fmt.Errorf("store put %q: %w", ev.Name, err)
		}
		r.ms.apply.WithLabelValues("upsert").Inc()
	case OpDelete:
		err := r.store.Delete(ctx, ev.Name)
		if err != nil && !errors.Is(err, locality.ErrNotFound) {
			return fmt.Errorf("store delete %q: %w", ev.Name, err)
		}
		r.ms.apply.WithLabelValues("delete").Inc()
	}
	if r.inv != nil {
		r.inv.Invalidate(ev.Name)
	}
	return nil
}

func (r *Runner) observe(op string, err error, dur time.Duration) {
	if err != nil {
		r.ms.msgs.WithLabelValues("error").Inc()
	} else {
		r.ms.msgs.WithLabelValues("ok").Inc()
	}
	r.ms.proc.WithLabelValues(op).Observe(dur.Seconds())
}

type groupHandler struct {
	setup   func(sarama.ConsumerGroupSession)
	cleanup func(sarama.ConsumerGroupSession)
	process func(context.Context, *sarama.ConsumerMessage) error
}

func (h *groupHandler) Setup(sess sarama.ConsumerGroupSession) error {
	if h.setup != nil {
		h.setup(sess)
	}
	return nil
}

func (h *groupHandler) Cleanup(sess sarama.ConsumerGroupSession) error {
	if h.cleanup != nil {
		h.cleanup(sess)
	}
	return nil
}

func (h *groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	ctx := sess.Context()
	for msg := range claim.Messages() {
		if err := h.process(ctx, msg); err != nil && !errors.Is(err, errMalformed) {
			return err
		}
		sess.MarkMessage(msg, "")
	}
	return nil
}
