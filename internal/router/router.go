package router

import (
	"context"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/klimeurt/repo-collector/internal/config"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Router consumes repository records and fans them out by archival status
type Router struct {
	config    *config.Config
	processor *Processor
	nc        *nats.Conn
	sub       *nats.Subscription
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// New creates a new Router instance
func New(cfg *config.Config) (*Router, error) {
	nc, err := nats.Connect(cfg.NATSUrl)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to NATS")
	}

	resolver, err := NewResolver(cfg)
	if err != nil {
		nc.Close()
		return nil, errors.Wrap(err, "failed to create resolver")
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Router{
		config:    cfg,
		processor: NewProcessor(cfg, resolver, nc),
		nc:        nc,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// Start begins processing messages from the source subject
func (r *Router) Start() error {
	logrus.WithFields(logrus.Fields{
		"source":   r.config.SourceSubject,
		"archived": r.config.ArchivedReposSubject,
		"active":   r.config.ActiveReposSubject,
		"unknown":  r.config.UnknownReposSubject,
	}).Info("starting router service")

	if err := r.ProcessExistingMessages(); err != nil {
		return errors.Wrap(err, "failed to process existing messages")
	}

	sub, err := r.nc.Subscribe(r.config.SourceSubject, func(msg *nats.Msg) {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()

			if err := r.processor.ProcessMessage(r.ctx, msg); err != nil {
				logrus.WithError(err).Error("error processing message")
			}
		}()
	})
	if err != nil {
		return errors.Wrapf(err, "failed to subscribe to %s", r.config.SourceSubject)
	}

	r.sub = sub
	logrus.Info("router service started")
	return nil
}

// ProcessExistingMessages drains messages already pending on the source
// subject before the asynchronous subscription takes over
func (r *Router) ProcessExistingMessages() error {
	if !r.config.ProcessStartupMessages {
		logrus.Info("startup message processing disabled, skipping")
		return nil
	}

	log := logrus.WithField("subject", r.config.SourceSubject)
	log.Info("processing existing messages")

	sub, err := r.nc.SubscribeSync(r.config.SourceSubject)
	if err != nil {
		return errors.Wrap(err, "failed to create sync subscription for startup processing")
	}
	defer func() {
		if err := sub.Unsubscribe(); err != nil {
			log.WithError(err).Warn("failed to unsubscribe during startup processing")
		}
	}()

	processed := 0
	timeout := 1 * time.Second // Short timeout to detect empty queue

	for {
		msg, err := sub.NextMsg(timeout)
		if err != nil {
			if errors.Is(err, nats.ErrTimeout) {
				break
			}
			return errors.Wrap(err, "error receiving message during startup processing")
		}

		if err := r.processor.ProcessMessage(r.ctx, msg); err != nil {
			// Continue processing other messages even if one fails
			log.WithError(err).Error("error processing startup message")
			continue
		}
		processed++
	}

	log.WithField("processed", processed).Info("startup message processing completed")
	return nil
}

// Stop gracefully shuts down the router service
func (r *Router) Stop() {
	logrus.Info("stopping router service")

	r.cancel()

	if r.sub != nil {
		if err := r.sub.Unsubscribe(); err != nil {
			logrus.WithError(err).Warn("failed to unsubscribe")
		}
	}

	r.wg.Wait()

	if r.nc != nil {
		r.nc.Close()
	}

	logrus.Info("router service stopped")
}

// Wait blocks until the service is stopped
func (r *Router) Wait() {
	<-r.ctx.Done()
}
